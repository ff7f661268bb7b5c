package coordinator

import (
	"context"
	"fmt"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/badge"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

// callbacks binds engine events of context cid to workspace id. Handlers
// only capture the two ids and resolve the context at call time.
func (vm *ViewManager) callbacks(ctx context.Context, id entity.WorkspaceID, cid port.ContextID) port.ContextCallbacks {
	ctx = logging.WithWorkspaceID(logging.Detach(ctx), string(id))

	return port.ContextCallbacks{
		OnLoadStart:   func() { vm.onLoadStart(id, cid) },
		OnLoadStop:    func() { vm.onLoadStop(ctx, id, cid) },
		OnLoadFail:    func(f port.LoadFailure) { vm.onLoadFail(ctx, id, cid, f) },
		OnNavigate:    func(url string) { vm.onNavigate(ctx, id, cid, url) },
		OnTitleUpdate: func(title string) { vm.onTitleUpdate(ctx, id, cid, title) },
		OnNewWindowRequest: func(req port.NewWindowRequest) {
			vm.onNewWindowRequest(ctx, id, cid, req)
		},
		OnDownloadStart: func(req port.DownloadRequest, control port.DownloadControl) {
			if _, ok := vm.lookup(id, cid); !ok {
				control.Cancel()
				return
			}
			if _, err := vm.downloads.Start(ctx, id, req, control); err != nil {
				logging.FromContext(ctx).Error().Err(err).Msg("download rejected")
			}
		},
		OnDownloadProgress: func(downloadID string, received, total int64) {
			vm.downloads.Progress(id, downloadID, received, total)
		},
		OnDownloadDone: func(downloadID string, state entity.DownloadState) {
			vm.downloads.Done(ctx, id, downloadID, state)
		},
	}
}

func (vm *ViewManager) onLoadStart(id entity.WorkspaceID, cid port.ContextID) {
	if _, ok := vm.lookup(id, cid); !ok {
		return
	}
	_, changed := vm.meta.Update(id, func(m *entity.WorkspaceMeta) {
		m.IsLoading = true
		m.DidFailLoad = ""
	})
	if changed {
		vm.publishMeta(id)
	}
}

func (vm *ViewManager) onLoadStop(ctx context.Context, id entity.WorkspaceID, cid port.ContextID) {
	bc, ok := vm.lookup(id, cid)
	if !ok {
		return
	}
	if _, changed := vm.meta.Update(id, func(m *entity.WorkspaceMeta) { m.IsLoading = false }); changed {
		vm.publishMeta(id)
	}

	url := bc.URL()
	if url != "" && url != "about:blank" {
		vm.mu.Lock()
		if v, ok := vm.views[id]; ok && v.bc == bc {
			v.authRetried = false
		}
		vm.mu.Unlock()

		ws, err := vm.app.Workspaces.Get(id)
		if err == nil && ws.LastURL != url {
			if _, err := vm.app.Workspaces.Update(ctx, id, entity.WorkspacePatch{LastURL: &url}); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("failed to persist last url")
			}
		}
		vm.detectAccount(ctx, id, cid, url)
	}
	vm.publishNavigation(id, bc)
}

func (vm *ViewManager) onLoadFail(ctx context.Context, id entity.WorkspaceID, cid port.ContextID, f port.LoadFailure) {
	bc, ok := vm.lookup(id, cid)
	if !ok || !f.IsMainFrame || f.Code == port.LoadErrorAborted {
		return
	}
	log := logging.FromContext(ctx)

	if f.Code == port.LoadErrorAuthFailed && bc.URL() == "" && vm.takeAuthRetry(id, bc) {
		ws, err := vm.app.Workspaces.Get(id)
		if err == nil {
			if target := homeURL(ws, vm.app.EffectivePreferences(ws)); target != "" {
				log.Info().Str("url", logging.TruncateURL(target, 80)).Msg("retrying home url after authentication failure")
				if err := bc.LoadURL(ctx, target); err == nil {
					return
				}
			}
		}
	}

	desc := f.Description
	if desc == "" {
		desc = fmt.Sprintf("load failed with code %d", f.Code)
	}
	vm.meta.Update(id, func(m *entity.WorkspaceMeta) {
		m.IsLoading = false
		m.DidFailLoad = desc
	})
	vm.app.Metrics.IncLoadFailures()
	vm.publishMeta(id)

	log.Warn().
		Int("code", f.Code).
		Str("url", logging.TruncateURL(f.URL, 80)).
		Str("description", desc).
		Msg("main frame load failed")
}

// takeAuthRetry reports whether the single auth retry is still available
// for the context and consumes it.
func (vm *ViewManager) takeAuthRetry(id entity.WorkspaceID, bc port.BrowsingContext) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v, ok := vm.views[id]
	if !ok || v.bc != bc || v.authRetried {
		return false
	}
	v.authRetried = true
	return true
}

func (vm *ViewManager) onNavigate(ctx context.Context, id entity.WorkspaceID, cid port.ContextID, url string) {
	bc, ok := vm.lookup(id, cid)
	if !ok {
		return
	}
	if ws, err := vm.app.Workspaces.Get(id); err == nil {
		vm.refreshUserAgent(ctx, bc, url, vm.app.EffectivePreferences(ws))
	}
	vm.publishNavigation(id, bc)
}

// onTitleUpdate feeds the unread count. Badge changes are forwarded for
// every workspace since the sidebar shows all of them.
func (vm *ViewManager) onTitleUpdate(ctx context.Context, id entity.WorkspaceID, cid port.ContextID, title string) {
	bc, ok := vm.lookup(id, cid)
	if !ok {
		return
	}
	count := badge.ExtractCount(title)
	if _, changed := vm.meta.Update(id, func(m *entity.WorkspaceMeta) { m.BadgeCount = count }); changed {
		vm.forceMeta(id)
		vm.badge.Refresh(ctx)
	}
	vm.publishNavigation(id, bc)
}

func (vm *ViewManager) onNewWindowRequest(ctx context.Context, id entity.WorkspaceID, cid port.ContextID, nw port.NewWindowRequest) {
	bc, ok := vm.lookup(id, cid)
	if !ok {
		return
	}
	o, err := vm.workspaceOrigin(id, bc)
	if err != nil {
		return
	}
	vm.route(ctx, o, o.request(bc, nw.URL, nw.Disposition), nw.FrameName)
}

// detectAccount reads the page in the background and stores the signed-in
// identity when it changed.
func (vm *ViewManager) detectAccount(ctx context.Context, id entity.WorkspaceID, cid port.ContextID, url string) {
	if vm.accounts == nil {
		return
	}
	vm.tasks.Go(func() {
		bc, ok := vm.lookup(id, cid)
		if !ok {
			return
		}
		html, err := bc.PageHTML(ctx)
		if err != nil || html == "" {
			return
		}
		info, ok := vm.accounts.Detect(url, html)
		if !ok {
			return
		}

		ws, err := vm.app.Workspaces.Get(id)
		if err != nil {
			return
		}
		if cur := ws.AccountInfo; cur != nil {
			if cur.Name == info.Name && cur.Email == info.Email {
				return
			}
			if info.PictureID == "" {
				info.PictureID = cur.PictureID
			}
		}
		updated, err := vm.app.Workspaces.Update(ctx, id, entity.WorkspacePatch{AccountInfo: info})
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("failed to store account info")
			return
		}
		vm.app.publishWorkspace(entity.EventWorkspaceUpdated, updated)
		logging.FromContext(ctx).Debug().Str("email", info.Email).Msg("account detected")
	})
}
