package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/domain/compat"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/domain/policy"
	"github.com/bnema/webdock/internal/logging"
)

const defaultPlaceholderTimeout = 10 * time.Second

// view binds a workspace to its live browsing context.
type view struct {
	bc          port.BrowsingContext
	authRetried bool
}

// ViewManager owns the live browsing context of every awake workspace.
// Contexts are only ever reached through an id lookup; callbacks of a
// destroyed or replaced context find nothing and return.
type ViewManager struct {
	app        *AppContext
	engine     port.Engine
	partitions port.PartitionStore
	policy     *policy.Engine
	explain    *usecase.ExplainNavigationUseCase
	resolver   *compat.Resolver
	opener     port.ExternalOpener
	popupHost  port.PopupHost
	accounts   port.AccountDetector
	filters    port.ContentFilterSource
	meta       *MetaCache
	badge      *BadgeAggregator
	downloads  *DownloadCoordinator

	hibernation        *HibernationScheduler
	placeholderTimeout time.Duration

	mu           sync.Mutex
	views        map[entity.WorkspaceID]*view
	popups       map[port.ContextID]*popup
	placeholders map[port.ContextID]*placeholder
	presented    entity.WorkspaceID

	tasks sync.WaitGroup
}

// ViewManagerConfig holds the collaborators of a ViewManager.
type ViewManagerConfig struct {
	App        *AppContext
	Engine     port.Engine
	Partitions port.PartitionStore
	Policy     *policy.Engine
	Resolver   *compat.Resolver
	Opener     port.ExternalOpener
	PopupHost  port.PopupHost
	// Accounts is optional; nil disables account detection.
	Accounts port.AccountDetector
	// Filters is optional; nil leaves ad blocking to the engine defaults.
	Filters   port.ContentFilterSource
	Meta      *MetaCache
	Badge     *BadgeAggregator
	Downloads *DownloadCoordinator
	// PlaceholderTimeout bounds how long a hidden placeholder waits for
	// its real destination. Zero selects the default.
	PlaceholderTimeout time.Duration
}

// NewViewManager creates a ViewManager and its hibernation scheduler.
func NewViewManager(ctx context.Context, cfg ViewManagerConfig) *ViewManager {
	logging.FromContext(ctx).Debug().Msg("creating view manager")

	vm := &ViewManager{
		app:                cfg.App,
		engine:             cfg.Engine,
		partitions:         cfg.Partitions,
		policy:             cfg.Policy,
		resolver:           cfg.Resolver,
		opener:             cfg.Opener,
		popupHost:          cfg.PopupHost,
		accounts:           cfg.Accounts,
		filters:            cfg.Filters,
		meta:               cfg.Meta,
		badge:              cfg.Badge,
		downloads:          cfg.Downloads,
		placeholderTimeout: cfg.PlaceholderTimeout,
		views:              make(map[entity.WorkspaceID]*view),
		popups:             make(map[port.ContextID]*popup),
		placeholders:       make(map[port.ContextID]*placeholder),
	}
	if vm.policy == nil {
		vm.policy = policy.NewEngine()
	}
	vm.explain = usecase.NewExplainNavigationUseCase(cfg.App.Workspaces, cfg.App.Preferences, vm.policy)
	if vm.resolver == nil {
		vm.resolver = compat.NewResolver()
	}
	if vm.placeholderTimeout <= 0 {
		vm.placeholderTimeout = defaultPlaceholderTimeout
	}
	vm.hibernation = NewHibernationScheduler(cfg.App.Clock, vm.onHibernationDue)
	return vm
}

// Hibernation exposes the scheduler owned by the manager.
func (vm *ViewManager) Hibernation() *HibernationScheduler {
	return vm.hibernation
}

// Ensure returns the live context of id, creating and loading it when the
// workspace is asleep. Calling it again returns the same context.
func (vm *ViewManager) Ensure(ctx context.Context, id entity.WorkspaceID) (port.BrowsingContext, error) {
	ws, err := vm.app.Workspaces.Get(id)
	if err != nil {
		return nil, err
	}
	if bc, ok := vm.Context(id); ok {
		return bc, nil
	}

	log := logging.FromContext(ctx)
	prefs := vm.app.EffectivePreferences(ws)
	target := initialURL(ws, prefs)
	cfg := vm.contextConfig(ws, prefs, target)

	bc, err := vm.engine.CreateContext(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}

	vm.mu.Lock()
	if existing, ok := vm.views[id]; ok {
		vm.mu.Unlock()
		bc.Destroy()
		return existing.bc, nil
	}
	vm.views[id] = &view{bc: bc}
	live := len(vm.views)
	vm.mu.Unlock()

	bc.SetCallbacks(vm.callbacks(ctx, id, bc.ID()))
	vm.app.Metrics.IncContextsCreated()
	vm.app.Metrics.SetLiveContexts(live)

	log.Info().
		Str("workspace_id", string(id)).
		Str("partition", cfg.PartitionID).
		Str("proxy_mode", string(cfg.Proxy.Mode)).
		Bool("content_filter", cfg.ContentFilterEnabled).
		Int("filter_lists", len(cfg.ContentFilterLists)).
		Int("extensions", len(cfg.Extensions)).
		Msg("browsing context created")

	if ws.Hibernated {
		updated, err := vm.app.Workspaces.Update(ctx, id, entity.WorkspacePatch{Hibernated: entity.Ptr(false)})
		if err != nil {
			log.Warn().Err(err).Str("workspace_id", string(id)).Msg("failed to clear hibernated flag")
		} else {
			vm.app.publishWorkspace(entity.EventWorkspaceUpdated, updated)
			vm.badge.Refresh(ctx)
		}
	}

	if target != "" {
		if err := bc.LoadURL(ctx, target); err != nil {
			log.Warn().Err(err).Str("url", logging.TruncateURL(target, 80)).Msg("initial load failed")
		}
	}
	return bc, nil
}

// initialURL picks the last visited page, the home URL, or the app default.
func initialURL(ws *entity.Workspace, prefs entity.EffectivePreferences) string {
	if prefs.RememberLastPage && ws.LastURL != "" {
		return ws.LastURL
	}
	if ws.HomeURL != "" {
		return ws.HomeURL
	}
	return prefs.DefaultURL
}

// homeURL is what an auth-failure retry loads.
func homeURL(ws *entity.Workspace, prefs entity.EffectivePreferences) string {
	if ws.HomeURL != "" {
		return ws.HomeURL
	}
	return prefs.DefaultURL
}

// contextConfig applies partition, proxy, content filter, user agent and
// extensions, in that order.
func (vm *ViewManager) contextConfig(ws *entity.Workspace, prefs entity.EffectivePreferences, target string) port.ContextConfig {
	cfg := port.ContextConfig{
		PartitionID:          vm.partitions.PartitionID(ws.ID, prefs.ShareBrowsingData),
		Proxy:                prefs.Proxy,
		ContentFilterEnabled: prefs.BlockAds,
		UserAgent:            vm.userAgentFor(target, prefs),
		Extensions:           prefs.Extensions,
		AudioMuted:           ws.DisableAudio,
	}
	if prefs.BlockAds && vm.filters != nil {
		cfg.ContentFilterLists = vm.filters.FilterLists()
	}
	return cfg
}

// userAgentFor returns the compatibility override for url, else the
// custom agent, else empty for the engine default.
func (vm *ViewManager) userAgentFor(url string, prefs entity.EffectivePreferences) string {
	if ua, ok := vm.resolver.Resolve(url); ok {
		return ua
	}
	return prefs.CustomUserAgent
}

// Context returns the live context of id.
func (vm *ViewManager) Context(id entity.WorkspaceID) (port.BrowsingContext, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v, ok := vm.views[id]
	if !ok {
		return nil, false
	}
	return v.bc, true
}

// Live reports whether id has a live context.
func (vm *ViewManager) Live(id entity.WorkspaceID) bool {
	_, ok := vm.Context(id)
	return ok
}

// LiveCount returns the number of workspace contexts.
func (vm *ViewManager) LiveCount() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.views)
}

// lookup resolves a callback target. It fails when the workspace has no
// context or its context is not the one that raised the event.
func (vm *ViewManager) lookup(id entity.WorkspaceID, cid port.ContextID) (port.BrowsingContext, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v, ok := vm.views[id]
	if !ok || v.bc.ID() != cid {
		return nil, false
	}
	return v.bc, true
}

// detach removes the context of id from the live map and returns it.
func (vm *ViewManager) detach(id entity.WorkspaceID) (port.BrowsingContext, int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v, ok := vm.views[id]
	if !ok {
		return nil, len(vm.views)
	}
	delete(vm.views, id)
	if vm.presented == id {
		vm.presented = ""
	}
	return v.bc, len(vm.views)
}

// Close tears the context of id down without touching stored data.
func (vm *ViewManager) Close(ctx context.Context, id entity.WorkspaceID) bool {
	bc, live := vm.detach(id)
	if bc == nil {
		return false
	}
	bc.Destroy()
	vm.app.Metrics.SetLiveContexts(live)
	if _, changed := vm.meta.Update(id, func(m *entity.WorkspaceMeta) { m.IsLoading = false }); changed {
		vm.publishMeta(id)
	}
	logging.FromContext(ctx).Debug().Str("workspace_id", string(id)).Msg("browsing context closed")
	return true
}

// HibernateOne releases the context of id and persists hibernated=true.
func (vm *ViewManager) HibernateOne(ctx context.Context, id entity.WorkspaceID) error {
	vm.hibernation.Cancel(id)
	vm.Close(ctx, id)

	ws, err := vm.app.Workspaces.Update(ctx, id, entity.WorkspacePatch{Hibernated: entity.Ptr(true)})
	if err != nil {
		return fmt.Errorf("failed to persist hibernation: %w", err)
	}
	vm.app.Metrics.IncHibernations()
	vm.app.publishWorkspace(entity.EventWorkspaceUpdated, ws)
	vm.badge.Refresh(ctx)

	logging.FromContext(ctx).Info().Str("workspace_id", string(id)).Msg("workspace hibernated")
	return nil
}

// onHibernationDue runs when a timer expires. The workspace may have been
// activated or removed in the meantime.
func (vm *ViewManager) onHibernationDue(ctx context.Context, id entity.WorkspaceID) {
	log := logging.FromContext(ctx)

	ws, err := vm.app.Workspaces.Get(id)
	if err != nil {
		log.Debug().Str("workspace_id", string(id)).Msg("hibernation skipped: workspace gone")
		return
	}
	if ws.Active || vm.presentedID() == id {
		log.Debug().Str("workspace_id", string(id)).Msg("hibernation skipped: workspace active")
		return
	}
	if err := vm.HibernateOne(ctx, id); err != nil {
		log.Error().Err(err).Str("workspace_id", string(id)).Msg("hibernation failed")
	}
}

// Destroy releases everything bound to a workspace being removed: its
// timer, downloads, meta and context. The partition is wiped in the
// background unless it is the shared one.
func (vm *ViewManager) Destroy(ctx context.Context, id entity.WorkspaceID) {
	log := logging.FromContext(ctx)

	vm.hibernation.Cancel(id)
	vm.downloads.CancelWorkspace(ctx, id)
	vm.Close(ctx, id)
	vm.meta.Delete(id)

	partition := vm.partitions.PartitionID(id, vm.app.Preferences.Preferences().ShareBrowsingData)
	if partition == vm.partitions.PartitionID(id, true) {
		log.Debug().Str("workspace_id", string(id)).Msg("shared partition kept")
		return
	}

	bg := logging.Detach(ctx)
	vm.tasks.Go(func() {
		if err := vm.partitions.Wipe(bg, partition); err != nil {
			logging.FromContext(bg).Warn().Err(err).Str("partition", partition).Msg("failed to wipe partition")
			return
		}
		logging.FromContext(bg).Debug().Str("partition", partition).Msg("partition wiped")
	})
}

// DestroyAll tears down every context, popup and placeholder, stops the
// scheduler and cancels downloads. Background work is awaited.
func (vm *ViewManager) DestroyAll(ctx context.Context) {
	vm.hibernation.Stop()
	vm.downloads.CancelAll(ctx)

	vm.mu.Lock()
	var contexts []port.BrowsingContext
	for id, v := range vm.views {
		contexts = append(contexts, v.bc)
		delete(vm.views, id)
	}
	for cid, p := range vm.popups {
		contexts = append(contexts, p.bc)
		delete(vm.popups, cid)
	}
	for cid, p := range vm.placeholders {
		p.timer.Stop()
		contexts = append(contexts, p.bc)
		delete(vm.placeholders, cid)
	}
	vm.presented = ""
	vm.mu.Unlock()

	for _, bc := range contexts {
		bc.Destroy()
	}
	vm.app.Metrics.SetLiveContexts(0)
	vm.Wait()

	logging.FromContext(ctx).Info().Int("contexts", len(contexts)).Msg("all browsing contexts destroyed")
}

// Wait blocks until background work (wipes, external opens, account
// detection) finished.
func (vm *ViewManager) Wait() {
	vm.tasks.Wait()
}

func (vm *ViewManager) presentedID() entity.WorkspaceID {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.presented
}

// SetActive presents the context of id on surface. A find-in-page running
// on the previous context is stopped first. The previous workspace gets a
// hibernation timer when the policy asks for it; a pending one for id is
// cancelled.
func (vm *ViewManager) SetActive(ctx context.Context, surface port.Surface, id entity.WorkspaceID) error {
	log := logging.FromContext(ctx)
	previous := vm.presentedID()

	if previous != "" && previous != id {
		if prev, ok := vm.Context(previous); ok && prev.IsFinding() {
			prev.StopFindInPage()
		}
	}

	bc, err := vm.Ensure(ctx, id)
	if err != nil {
		return err
	}
	vm.hibernation.Cancel(id)

	if surface != nil {
		if attached := surface.Attached(); attached != nil && attached != bc {
			surface.Detach(attached)
		}
		surface.Attach(bc)
	}

	vm.mu.Lock()
	vm.presented = id
	vm.mu.Unlock()

	if previous != "" && previous != id {
		vm.scheduleHibernation(ctx, previous)
	}

	log.Debug().Str("workspace_id", string(id)).Str("previous_id", string(previous)).Msg("workspace presented")
	vm.publishMeta(id)
	vm.publishNavigation(id, bc)
	return nil
}

func (vm *ViewManager) scheduleHibernation(ctx context.Context, id entity.WorkspaceID) {
	ws, err := vm.app.Workspaces.Get(id)
	if err != nil || !vm.Live(id) {
		return
	}
	prefs := vm.app.EffectivePreferences(ws)
	if !prefs.HibernateUnused && !ws.HibernateWhenUnused {
		return
	}
	vm.hibernation.Schedule(ctx, id, prefs.HibernationTimeout)
}

// FindInPage searches the page of a live workspace.
func (vm *ViewManager) FindInPage(id entity.WorkspaceID, text string, forward bool) error {
	bc, ok := vm.Context(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrContextUnavailable, id)
	}
	if text == "" {
		bc.StopFindInPage()
		return nil
	}
	bc.FindInPage(text, forward)
	return nil
}

// StopFindInPage cancels a running search; it is a no-op for sleeping workspaces.
func (vm *ViewManager) StopFindInPage(id entity.WorkspaceID) {
	if bc, ok := vm.Context(id); ok {
		bc.StopFindInPage()
	}
}

// LoadURL navigates the workspace. With forceNewWindow the request goes
// through the routing policy as a forced new window instead.
func (vm *ViewManager) LoadURL(ctx context.Context, id entity.WorkspaceID, url string, forceNewWindow bool) (entity.NavigationDecision, error) {
	if url == "" {
		return entity.NavigationDecision{}, errors.New("empty url")
	}
	bc, err := vm.Ensure(ctx, id)
	if err != nil {
		return entity.NavigationDecision{}, err
	}

	if !forceNewWindow {
		if err := bc.LoadURL(ctx, url); err != nil {
			return entity.NavigationDecision{}, fmt.Errorf("failed to load url: %w", err)
		}
		return entity.NavigationDecision{Action: entity.ActionLoadInPlace, Reason: "direct load"}, nil
	}

	o, err := vm.workspaceOrigin(id, bc)
	if err != nil {
		return entity.NavigationDecision{}, err
	}
	req := o.request(bc, url, entity.DispositionDefault)
	req.Options.ForceNewWindow = true
	return vm.route(ctx, o, req, ""), nil
}

// ApplyWorkspace pushes settings that can change on a live context.
// Partition and proxy only apply to the next context.
func (vm *ViewManager) ApplyWorkspace(ctx context.Context, ws *entity.Workspace) {
	bc, ok := vm.Context(ws.ID)
	if !ok {
		return
	}
	bc.SetAudioMuted(ws.DisableAudio)
	vm.refreshUserAgent(ctx, bc, bc.URL(), vm.app.EffectivePreferences(ws))
}

// ApplyPreferences re-applies global preferences to every live context.
func (vm *ViewManager) ApplyPreferences(ctx context.Context) {
	vm.mu.Lock()
	ids := make([]entity.WorkspaceID, 0, len(vm.views))
	for id := range vm.views {
		ids = append(ids, id)
	}
	vm.mu.Unlock()

	for _, id := range ids {
		ws, err := vm.app.Workspaces.Get(id)
		if err != nil {
			continue
		}
		vm.ApplyWorkspace(ctx, ws)
	}
	vm.badge.Refresh(ctx)
}

// refreshUserAgent re-resolves the agent for url. Authentication flows
// keep whatever agent they started with.
func (vm *ViewManager) refreshUserAgent(ctx context.Context, bc port.BrowsingContext, url string, prefs entity.EffectivePreferences) {
	if url == "" || compat.IsAuthFlowURL(url) {
		return
	}
	ua := vm.userAgentFor(url, prefs)
	if ua == "" {
		ua = vm.engine.DefaultUserAgent()
	}
	if bc.UserAgent() == ua {
		return
	}
	bc.SetUserAgent(ua)
	logging.FromContext(ctx).Debug().Str("url", logging.TruncateURL(url, 80)).Msg("user agent changed")
}

// publishMeta forwards the meta of id. Load state is only surfaced for
// the active workspace.
func (vm *ViewManager) publishMeta(id entity.WorkspaceID) {
	if !vm.isActive(id) {
		return
	}
	vm.forceMeta(id)
}

func (vm *ViewManager) forceMeta(id entity.WorkspaceID) {
	m := vm.meta.Get(id)
	vm.app.Events.Publish(entity.Event{Type: entity.EventWorkspaceMetaChanged, WorkspaceID: id, Meta: &m})
}

func (vm *ViewManager) publishNavigation(id entity.WorkspaceID, bc port.BrowsingContext) {
	if !vm.isActive(id) {
		return
	}
	vm.app.Events.Publish(entity.Event{
		Type:        entity.EventNavigationStateChanged,
		WorkspaceID: id,
		Navigation: &entity.NavigationState{
			WorkspaceID:  id,
			URL:          bc.URL(),
			Title:        bc.Title(),
			CanGoBack:    bc.CanGoBack(),
			CanGoForward: bc.CanGoForward(),
		},
	})
}

func (vm *ViewManager) isActive(id entity.WorkspaceID) bool {
	active := vm.app.Workspaces.Active()
	return active != nil && active.ID == id
}
