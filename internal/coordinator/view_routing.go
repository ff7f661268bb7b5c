package coordinator

import (
	"context"
	"sync"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	urlutil "github.com/bnema/webdock/internal/domain/url"
	"github.com/bnema/webdock/internal/logging"
)

// origin identifies the context a navigation request came from, together
// with the settings a popup it opens inherits.
type origin struct {
	workspaceID entity.WorkspaceID
	contextID   port.ContextID
	homeURL     string
	config      port.ContextConfig
	prefs       entity.EffectivePreferences
}

func (o origin) request(bc port.BrowsingContext, target string, d entity.Disposition) entity.NavigationRequest {
	if d == "" {
		d = entity.DispositionDefault
	}
	return entity.NavigationRequest{
		TargetURL:          target,
		Disposition:        d,
		TriggerWorkspaceID: o.workspaceID,
		CurrentURL:         bc.URL(),
		HomeURL:            o.homeURL,
	}
}

// popup is an unmanaged window context. It belongs to no workspace but
// keeps the session of the one that opened it.
type popup struct {
	bc     port.BrowsingContext
	origin origin
}

// placeholder is a hidden context waiting for its real destination.
type placeholder struct {
	bc     port.BrowsingContext
	origin origin
	req    entity.NavigationRequest
	timer  port.Timer
	once   sync.Once
}

func (vm *ViewManager) workspaceOrigin(id entity.WorkspaceID, bc port.BrowsingContext) (origin, error) {
	ws, err := vm.app.Workspaces.Get(id)
	if err != nil {
		return origin{}, err
	}
	prefs := vm.app.EffectivePreferences(ws)
	cfg := vm.contextConfig(ws, prefs, "")
	cfg.UserAgent = bc.UserAgent()
	return origin{
		workspaceID: id,
		contextID:   bc.ID(),
		homeURL:     ws.HomeURL,
		config:      cfg,
		prefs:       prefs,
	}, nil
}

// resolve finds the live context behind o, workspace or popup.
func (vm *ViewManager) resolve(o origin) (port.BrowsingContext, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if v, ok := vm.views[o.workspaceID]; ok && v.bc.ID() == o.contextID {
		return v.bc, true
	}
	if p, ok := vm.popups[o.contextID]; ok {
		return p.bc, true
	}
	return nil, false
}

// route decides req and executes the decision. Popups re-enter here for
// their own new-window requests.
func (vm *ViewManager) route(ctx context.Context, o origin, req entity.NavigationRequest, frameName string) entity.NavigationDecision {
	d := vm.policy.Decide(req, o.prefs)
	vm.app.Metrics.IncDecisions(string(d.Action))

	logging.FromContext(ctx).Debug().
		Str("url", logging.TruncateURL(req.TargetURL, 80)).
		Str("disposition", string(req.Disposition)).
		Str("action", string(d.Action)).
		Str("reason", d.Reason).
		Bool("placeholder", d.Placeholder).
		Msg("navigation decided")

	if d.Placeholder {
		vm.openPlaceholder(ctx, o, req, frameName)
		return d
	}
	vm.execute(ctx, o, d, req.TargetURL, frameName)
	return d
}

func (vm *ViewManager) execute(ctx context.Context, o origin, d entity.NavigationDecision, target, frameName string) {
	log := logging.FromContext(ctx)

	switch d.Action {
	case entity.ActionLoadInPlace:
		bc, ok := vm.resolve(o)
		if !ok {
			return
		}
		if err := bc.LoadURL(ctx, target); err != nil {
			log.Warn().Err(err).Msg("failed to load in place")
		}
	case entity.ActionOpenNewWindow:
		vm.openPopup(ctx, o, target, frameName)
	case entity.ActionOpenExternally:
		bg := logging.Detach(ctx)
		vm.tasks.Go(func() {
			if err := vm.opener.OpenExternal(bg, target); err != nil {
				logging.FromContext(bg).Warn().Err(err).Str("url", logging.TruncateURL(target, 80)).Msg("failed to open externally")
			}
		})
	case entity.ActionBlock:
		log.Info().Str("url", logging.TruncateURL(target, 80)).Str("reason", d.Reason).Msg("navigation blocked")
	}
}

// openPopup creates an unmanaged window context with the session of o.
func (vm *ViewManager) openPopup(ctx context.Context, o origin, target, frameName string) {
	log := logging.FromContext(ctx)

	cfg := o.config
	cfg.Hidden = false
	bc, err := vm.engine.CreateContext(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create popup context")
		return
	}

	child := o
	child.contextID = bc.ID()
	vm.mu.Lock()
	vm.popups[bc.ID()] = &popup{bc: bc, origin: child}
	vm.mu.Unlock()

	bc.SetCallbacks(vm.popupCallbacks(ctx, child))
	if err := bc.LoadURL(ctx, target); err != nil {
		log.Warn().Err(err).Msg("popup load failed")
	}
	if vm.popupHost != nil {
		vm.popupHost.ShowPopup(bc, frameName)
	}
	log.Debug().Str("url", logging.TruncateURL(target, 80)).Msg("popup opened")
}

func (vm *ViewManager) popupCallbacks(ctx context.Context, o origin) port.ContextCallbacks {
	ctx = logging.WithComponent(logging.Detach(ctx), "popup")
	return port.ContextCallbacks{
		OnNewWindowRequest: func(nw port.NewWindowRequest) {
			bc, ok := vm.resolve(o)
			if !ok {
				return
			}
			vm.route(ctx, o, o.request(bc, nw.URL, nw.Disposition), nw.FrameName)
		},
		OnDownloadStart: func(req port.DownloadRequest, control port.DownloadControl) {
			if _, err := vm.downloads.Start(ctx, o.workspaceID, req, control); err != nil {
				logging.FromContext(ctx).Error().Err(err).Msg("download rejected")
			}
		},
		OnDownloadProgress: func(downloadID string, received, total int64) {
			vm.downloads.Progress(o.workspaceID, downloadID, received, total)
		},
		OnDownloadDone: func(downloadID string, state entity.DownloadState) {
			vm.downloads.Done(ctx, o.workspaceID, downloadID, state)
		},
	}
}

// ClosePopup releases a popup once its window went away.
func (vm *ViewManager) ClosePopup(cid port.ContextID) {
	vm.mu.Lock()
	p, ok := vm.popups[cid]
	delete(vm.popups, cid)
	vm.mu.Unlock()
	if ok {
		p.bc.Destroy()
	}
}

// PopupCount returns the number of open popups.
func (vm *ViewManager) PopupCount() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.popups)
}

// openPlaceholder loads req in a hidden context and decides again once it
// navigated somewhere resolvable. It is dropped after the timeout.
func (vm *ViewManager) openPlaceholder(ctx context.Context, o origin, req entity.NavigationRequest, frameName string) {
	log := logging.FromContext(ctx)

	cfg := o.config
	cfg.Hidden = true
	bc, err := vm.engine.CreateContext(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create placeholder context")
		return
	}

	cid := bc.ID()
	bg := logging.Detach(ctx)
	p := &placeholder{bc: bc, origin: o, req: req}
	p.timer = vm.app.Clock.AfterFunc(vm.placeholderTimeout, func() {
		if vm.takePlaceholder(cid) != nil {
			bc.Destroy()
			logging.FromContext(bg).Debug().Msg("placeholder expired without destination")
		}
	})
	vm.mu.Lock()
	vm.placeholders[cid] = p
	vm.mu.Unlock()

	bc.SetCallbacks(port.ContextCallbacks{
		OnNavigate: func(url string) {
			if !urlutil.IsResolvable(url) {
				return
			}
			p.once.Do(func() { vm.resolvePlaceholder(bg, cid, url, frameName) })
		},
	})
	if err := bc.LoadURL(ctx, req.TargetURL); err != nil {
		log.Warn().Err(err).Msg("placeholder load failed")
	}
}

func (vm *ViewManager) takePlaceholder(cid port.ContextID) *placeholder {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	p, ok := vm.placeholders[cid]
	if !ok {
		return nil
	}
	delete(vm.placeholders, cid)
	return p
}

func (vm *ViewManager) resolvePlaceholder(ctx context.Context, cid port.ContextID, url, frameName string) {
	p := vm.takePlaceholder(cid)
	if p == nil {
		return
	}
	p.timer.Stop()
	p.bc.Destroy()

	req := p.req
	req.TargetURL = url
	d := vm.policy.DecideResolved(req, p.origin.prefs)
	vm.app.Metrics.IncDecisions(string(d.Action))

	logging.FromContext(ctx).Debug().
		Str("url", logging.TruncateURL(url, 80)).
		Str("action", string(d.Action)).
		Str("reason", d.Reason).
		Msg("placeholder resolved")

	vm.execute(ctx, p.origin, d, url, frameName)
}

// PlaceholderCount returns the number of pending placeholders.
func (vm *ViewManager) PlaceholderCount() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.placeholders)
}

// Explain returns the decision the policy would take for req without
// executing it. The live page of the triggering workspace counts as its
// current page.
func (vm *ViewManager) Explain(req entity.NavigationRequest) (entity.NavigationDecision, error) {
	if req.TriggerWorkspaceID != "" && req.CurrentURL == "" {
		if bc, ok := vm.Context(req.TriggerWorkspaceID); ok {
			req.CurrentURL = bc.URL()
		}
	}
	return vm.explain.Execute(req)
}
