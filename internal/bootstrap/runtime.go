package bootstrap

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bnema/webdock/internal/app/messaging"
	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/coordinator"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/infrastructure/accountinfo"
	"github.com/bnema/webdock/internal/infrastructure/clock"
	"github.com/bnema/webdock/internal/infrastructure/config"
	"github.com/bnema/webdock/internal/infrastructure/desktop"
	"github.com/bnema/webdock/internal/infrastructure/favicon"
	"github.com/bnema/webdock/internal/infrastructure/filtering"
	"github.com/bnema/webdock/internal/infrastructure/metrics"
	"github.com/bnema/webdock/internal/logging"
)

// DesktopID names the .desktop entry used for the launcher badge.
const DesktopID = "webdock.desktop"

// RuntimeOptions carry the collaborators that only the embedding UI can
// provide. Engine and Surface are required.
type RuntimeOptions struct {
	Engine    port.Engine
	Surface   port.Surface
	PopupHost port.PopupHost
	// Clock defaults to the wall clock.
	Clock port.Clock
	// Registry defaults to a fresh prometheus registry.
	Registry *prometheus.Registry
	// Opener and Inhibitor default to the desktop portal adapters.
	Opener    port.ExternalOpener
	Inhibitor port.SuspendInhibitor
	// Badge defaults to the Unity launcher entry on the session bus.
	Badge port.BadgePublisher
}

// Runtime is a running workspace engine.
type Runtime struct {
	Coordinator *coordinator.Coordinator
	Components  *coordinator.Components
	Router      *messaging.Router
	Events      *messaging.Broadcaster
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry

	portal *desktop.Portal
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// StartRuntime wires the coordinator on top of s and starts it.
func (s *Services) StartRuntime(opts RuntimeOptions) (*Runtime, error) {
	if opts.Engine == nil || opts.Surface == nil {
		return nil, errors.New("engine and surface are required")
	}
	timer := NewStartupTimer()
	cfg := s.Config.Get()
	ctx, cancel := context.WithCancel(logging.WithComponent(s.ctx, "runtime"))

	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	portal := desktop.NewPortal()
	if opts.Opener == nil {
		opts.Opener = desktop.NewOpener(portal)
	}
	if opts.Inhibitor == nil {
		opts.Inhibitor = desktop.NewSuspendInhibitor(portal)
	}
	launcher := desktop.NewLauncherBadge(ctx, portal, DesktopID)
	if opts.Badge == nil {
		opts.Badge = launcher
	}

	m := metrics.New(opts.Registry)
	events := messaging.NewBroadcaster(ctx)
	app := &coordinator.AppContext{
		Workspaces:  s.Workspaces,
		Preferences: s.Preferences,
		Clock:       opts.Clock,
		Events:      events,
		Badge:       opts.Badge,
		Progress:    launcher,
		Metrics:     m,
	}
	timer.Mark("adapters")

	iconsDir, err := s.XDG.IconsDir()
	if err != nil {
		cancel()
		return nil, err
	}
	// Read once; toggling icon fetching takes effect on the next start.
	var icons *usecase.FetchWorkspaceIconUseCase
	if cfg.Icons.FetchEnabled {
		fetcher := favicon.NewFetcher(iconsDir, s.FS,
			favicon.WithTimeout(time.Duration(cfg.Icons.TimeoutSeconds)*time.Second))
		icons = usecase.NewFetchWorkspaceIconUseCase(fetcher, s.Workspaces, s.Preferences)
	}

	var filters *filtering.Downloader
	if cfg.ContentFilter.ListsURL != "" {
		filtersDir, err := s.XDG.FilterListsDir()
		if err != nil {
			cancel()
			return nil, err
		}
		filters = filtering.NewDownloader(cfg.ContentFilter.ListsURL, filtersDir,
			filtering.WithMaxAge(filterInterval(cfg)))
	}

	vmCfg := coordinator.ViewManagerConfig{
		Engine:     opts.Engine,
		Partitions: s.Partitions,
		Opener:     opts.Opener,
		PopupHost:  opts.PopupHost,
		Accounts:   accountinfo.NewDetector(),
	}
	if filters != nil {
		vmCfg.Filters = filters
	}
	comps := coordinator.Wire(ctx, app, vmCfg, s.FS, opts.Inhibitor, icons, s.ClearData, opts.Surface)
	timer.Mark("coordinator")

	router := messaging.NewRouter(ctx)
	if err := messaging.RegisterWorkspaceHandlers(router, comps.Coordinator); err != nil {
		cancel()
		return nil, err
	}
	router.Start()

	rt := &Runtime{
		Coordinator: comps.Coordinator,
		Components:  comps,
		Router:      router,
		Events:      events,
		Metrics:     m,
		Registry:    opts.Registry,
		portal:      portal,
		cancel:      cancel,
	}

	s.Config.OnConfigChange(func(*config.Config) {
		rt.Coordinator.OnPreferencesChanged(ctx)
	})
	if err := s.Config.Watch(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("config watch unavailable")
	}

	if addr := cfg.Metrics.ListenAddr; addr != "" {
		rt.tasks.Go(func() {
			if err := metrics.Serve(ctx, addr, opts.Registry); err != nil {
				logging.FromContext(ctx).Error().Err(err).Str("addr", addr).Msg("metrics endpoint failed")
			}
		})
	}
	if filters != nil {
		rt.tasks.Go(func() {
			s.refreshFilters(logging.WithComponent(ctx, "filter-lists"), filters, filterInterval(cfg))
		})
	}

	if err := rt.Coordinator.Start(ctx); err != nil {
		rt.Close(ctx)
		return nil, err
	}
	timer.Mark("start")
	timer.Log(ctx)
	return rt, nil
}

// Close tears down every context, drains queued commands and releases
// the session bus.
func (r *Runtime) Close(ctx context.Context) {
	r.Router.Close()
	r.Coordinator.Shutdown(ctx)
	r.Events.Close()
	r.cancel()
	r.tasks.Wait()
	if err := r.portal.Close(); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("portal close failed")
	}
}

// filterInterval is the configured list update interval. Zero disables
// periodic checks after the first one.
func filterInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.ContentFilter.UpdateIntervalHours) * time.Hour
}

// refreshFilters keeps the rule lists current while any workspace blocks
// ads. New lists apply to contexts created afterwards.
func (s *Services) refreshFilters(ctx context.Context, src port.ContentFilterSource, interval time.Duration) {
	log := logging.FromContext(ctx)
	for {
		if s.blocksAds() {
			if _, err := src.Refresh(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("filter list refresh failed")
			}
		}
		if interval <= 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// blocksAds reports whether the global preference or any workspace
// override enables ad blocking.
func (s *Services) blocksAds() bool {
	global := s.Preferences.Preferences()
	if global.BlockAds {
		return true
	}
	for _, ws := range s.Workspaces.List() {
		if entity.ResolvePreferences(ws.Preferences, global).BlockAds {
			return true
		}
	}
	return false
}

var _ messaging.WorkspaceService = (*coordinator.Coordinator)(nil)
