package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

// ErrWorkspaceActive is returned when hibernating the presented workspace.
var ErrWorkspaceActive = errors.New("workspace is active")

// Coordinator serves the commands and queries of UI surfaces. It keeps
// the workspace store, the live contexts and the broadcast events in step.
type Coordinator struct {
	app       *AppContext
	views     *ViewManager
	meta      *MetaCache
	badge     *BadgeAggregator
	downloads *DownloadCoordinator
	icons     *usecase.FetchWorkspaceIconUseCase
	clearData *usecase.ClearBrowsingDataUseCase
	surface   port.Surface

	tasks sync.WaitGroup
}

// Config holds the collaborators of a Coordinator.
type Config struct {
	App       *AppContext
	Views     *ViewManager
	Meta      *MetaCache
	Badge     *BadgeAggregator
	Downloads *DownloadCoordinator
	// Icons is optional; nil disables icon fetching.
	Icons     *usecase.FetchWorkspaceIconUseCase
	ClearData *usecase.ClearBrowsingDataUseCase
	Surface   port.Surface
}

// New creates a Coordinator.
func New(ctx context.Context, cfg Config) *Coordinator {
	logging.FromContext(ctx).Debug().Msg("creating workspace coordinator")
	return &Coordinator{
		app:       cfg.App,
		views:     cfg.Views,
		meta:      cfg.Meta,
		badge:     cfg.Badge,
		downloads: cfg.Downloads,
		icons:     cfg.Icons,
		clearData: cfg.ClearData,
		surface:   cfg.Surface,
	}
}

// Components bundles a fully wired coordinator.
type Components struct {
	Coordinator *Coordinator
	Views       *ViewManager
	Meta        *MetaCache
	Badge       *BadgeAggregator
	Downloads   *DownloadCoordinator
}

// Wire builds the meta cache, badge aggregator, download coordinator,
// view manager and coordinator around app. vmCfg.App, Meta, Badge and
// Downloads are filled in.
func Wire(
	ctx context.Context,
	app *AppContext,
	vmCfg ViewManagerConfig,
	fs port.FileSystem,
	inhibitor port.SuspendInhibitor,
	icons *usecase.FetchWorkspaceIconUseCase,
	clearData *usecase.ClearBrowsingDataUseCase,
	surface port.Surface,
) *Components {
	app = app.withDefaults()
	meta := NewMetaCache()
	badge := NewBadgeAggregator(app, meta)
	downloads := NewDownloadCoordinator(app, fs, inhibitor)

	vmCfg.App = app
	vmCfg.Meta = meta
	vmCfg.Badge = badge
	vmCfg.Downloads = downloads
	views := NewViewManager(ctx, vmCfg)

	c := New(ctx, Config{
		App:       app,
		Views:     views,
		Meta:      meta,
		Badge:     badge,
		Downloads: downloads,
		Icons:     icons,
		ClearData: clearData,
		Surface:   surface,
	})
	return &Components{Coordinator: c, Views: views, Meta: meta, Badge: badge, Downloads: downloads}
}

// Start wakes every workspace that is not hibernated and presents the
// active one.
func (c *Coordinator) Start(ctx context.Context) error {
	log := logging.FromContext(ctx)

	for _, ws := range c.app.Workspaces.List() {
		if ws.Hibernated && !ws.Active {
			continue
		}
		if _, err := c.views.Ensure(ctx, ws.ID); err != nil {
			log.Error().Err(err).Str("workspace_id", string(ws.ID)).Msg("failed to wake workspace")
		}
	}
	if active := c.app.Workspaces.Active(); active != nil {
		if err := c.views.SetActive(ctx, c.surface, active.ID); err != nil {
			return fmt.Errorf("failed to present active workspace: %w", err)
		}
	}
	c.badge.Refresh(ctx)

	log.Info().Int("workspaces", len(c.app.Workspaces.List())).Int("live", c.views.LiveCount()).Msg("coordinator started")
	return nil
}

// Create stores a new workspace, starts its icon download and presents it
// when it became active.
func (c *Coordinator) Create(ctx context.Context, patch entity.WorkspacePatch) (*entity.Workspace, error) {
	ws, err := c.app.Workspaces.Create(ctx, patch)
	if err != nil {
		return nil, err
	}
	c.app.publishWorkspace(entity.EventWorkspaceCreated, ws)
	c.fetchIcon(ctx, ws.ID, false)

	if ws.Active {
		if err := c.views.SetActive(ctx, c.surface, ws.ID); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to present new workspace")
		}
	} else if _, err := c.views.Ensure(ctx, ws.ID); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to wake new workspace")
	}
	return ws, nil
}

// Remove destroys the context and data of id and deletes the record.
// When it was active, the first remaining workspace is activated.
func (c *Coordinator) Remove(ctx context.Context, id entity.WorkspaceID) error {
	ws, err := c.app.Workspaces.Get(id)
	if err != nil {
		return err
	}

	c.views.Destroy(ctx, id)
	if err := c.app.Workspaces.Remove(ctx, id); err != nil {
		return err
	}
	c.app.Events.Publish(entity.Event{Type: entity.EventWorkspaceRemoved, WorkspaceID: id})
	c.badge.Refresh(ctx)

	if ws.Active {
		if rest := c.app.Workspaces.List(); len(rest) > 0 {
			return c.SetActive(ctx, rest[0].ID)
		}
	}
	return nil
}

// SetActive persists id as the active workspace and presents it.
func (c *Coordinator) SetActive(ctx context.Context, id entity.WorkspaceID) error {
	previous, err := c.app.Workspaces.SetActive(ctx, id)
	if err != nil {
		return err
	}
	if previous != "" && previous != id {
		c.publishCurrent(previous)
	}
	c.publishCurrent(id)
	return c.views.SetActive(ctx, c.surface, id)
}

// Next activates the workspace after the active one, wrapping around.
func (c *Coordinator) Next(ctx context.Context) error {
	return c.step(ctx, c.app.Workspaces.Next)
}

// Previous activates the workspace before the active one, wrapping around.
func (c *Coordinator) Previous(ctx context.Context) error {
	return c.step(ctx, c.app.Workspaces.Previous)
}

func (c *Coordinator) step(ctx context.Context, adjacent func(entity.WorkspaceID) (*entity.Workspace, error)) error {
	active := c.app.Workspaces.Active()
	if active == nil {
		list := c.app.Workspaces.List()
		if len(list) == 0 {
			return usecase.ErrWorkspaceNotFound
		}
		return c.SetActive(ctx, list[0].ID)
	}
	target, err := adjacent(active.ID)
	if err != nil {
		return err
	}
	if target.ID == active.ID {
		return nil
	}
	return c.SetActive(ctx, target.ID)
}

// Reorder rewrites the order to match ids.
func (c *Coordinator) Reorder(ctx context.Context, ids []entity.WorkspaceID) error {
	if err := c.app.Workspaces.Reorder(ctx, ids); err != nil {
		return err
	}
	for _, ws := range c.app.Workspaces.List() {
		c.app.publishWorkspace(entity.EventWorkspaceUpdated, ws)
	}
	return nil
}

// Move places id at position and renumbers the rest.
func (c *Coordinator) Move(ctx context.Context, id entity.WorkspaceID, position int) error {
	if err := c.app.Workspaces.Move(ctx, id, position); err != nil {
		return err
	}
	for _, ws := range c.app.Workspaces.List() {
		c.app.publishWorkspace(entity.EventWorkspaceUpdated, ws)
	}
	return nil
}

// SetField applies patch to id. Hibernation changes go through Hibernate
// and Wake; other fields that matter at runtime are pushed to the live context.
func (c *Coordinator) SetField(ctx context.Context, id entity.WorkspaceID, patch entity.WorkspacePatch) (*entity.Workspace, error) {
	before, err := c.app.Workspaces.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Hibernated != nil {
		if *patch.Hibernated {
			err = c.Hibernate(ctx, id)
		} else {
			err = c.Wake(ctx, id)
		}
		if err != nil {
			return nil, err
		}
		patch.Hibernated = nil
	}
	if patch.IsEmpty() {
		return c.app.Workspaces.Get(id)
	}

	ws, err := c.app.Workspaces.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.app.publishWorkspace(entity.EventWorkspaceUpdated, ws)
	c.views.ApplyWorkspace(ctx, ws)

	if ws.HomeURL != before.HomeURL {
		c.fetchIcon(ctx, id, false)
	}
	if ws.DisableNotifications != before.DisableNotifications {
		c.badge.Refresh(ctx)
	}
	return ws, nil
}

// Hibernate releases the context of an inactive workspace.
func (c *Coordinator) Hibernate(ctx context.Context, id entity.WorkspaceID) error {
	ws, err := c.app.Workspaces.Get(id)
	if err != nil {
		return err
	}
	if ws.Active {
		return fmt.Errorf("%w: %s", ErrWorkspaceActive, id)
	}
	return c.views.HibernateOne(ctx, id)
}

// Wake re-creates the context of a hibernated workspace.
func (c *Coordinator) Wake(ctx context.Context, id entity.WorkspaceID) error {
	_, err := c.views.Ensure(ctx, id)
	return err
}

// ClearBrowsingData wipes the partitions of ids, or of every workspace
// when ids is empty. Live contexts are closed first and re-created after.
func (c *Coordinator) ClearBrowsingData(ctx context.Context, ids []entity.WorkspaceID) error {
	log := logging.FromContext(ctx)

	targets := ids
	if len(targets) == 0 || c.app.Preferences.Preferences().ShareBrowsingData {
		targets = nil
		for _, ws := range c.app.Workspaces.List() {
			targets = append(targets, ws.ID)
		}
	}

	var reopen []entity.WorkspaceID
	for _, id := range targets {
		if c.views.Close(ctx, id) {
			reopen = append(reopen, id)
		}
	}

	wiped, wipeErr := c.clearData.Execute(ctx, ids)
	log.Info().Strs("partitions", wiped).Msg("browsing data cleared")

	var errs []error
	if wipeErr != nil {
		errs = append(errs, wipeErr)
	}
	for _, id := range reopen {
		if _, err := c.views.Ensure(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if active := c.app.Workspaces.Active(); active != nil {
		if err := c.views.SetActive(ctx, c.surface, active.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadURL navigates a workspace, optionally through a forced new window.
func (c *Coordinator) LoadURL(ctx context.Context, id entity.WorkspaceID, url string, forceNewWindow bool) (entity.NavigationDecision, error) {
	return c.views.LoadURL(ctx, id, url, forceNewWindow)
}

// FindInPage searches the presented page. An empty text stops the search.
func (c *Coordinator) FindInPage(text string, forward bool) error {
	active := c.app.Workspaces.Active()
	if active == nil {
		return usecase.ErrWorkspaceNotFound
	}
	return c.views.FindInPage(active.ID, text, forward)
}

// Workspaces returns every workspace ordered by Order.
func (c *Coordinator) Workspaces() []*entity.Workspace {
	return c.app.Workspaces.List()
}

// Workspace returns one workspace.
func (c *Coordinator) Workspace(id entity.WorkspaceID) (*entity.Workspace, error) {
	return c.app.Workspaces.Get(id)
}

// Meta returns the runtime state of id.
func (c *Coordinator) Meta(id entity.WorkspaceID) entity.WorkspaceMeta {
	return c.meta.Get(id)
}

// Metas returns the runtime state of every workspace, zero values included.
func (c *Coordinator) Metas() map[entity.WorkspaceID]entity.WorkspaceMeta {
	out := make(map[entity.WorkspaceID]entity.WorkspaceMeta)
	for _, ws := range c.app.Workspaces.List() {
		out[ws.ID] = c.meta.Get(ws.ID)
	}
	return out
}

// BadgeTotal returns the last published badge value.
func (c *Coordinator) BadgeTotal() int {
	return c.badge.Total()
}

// ExplainNavigation reports the decision and reason for a hypothetical request.
func (c *Coordinator) ExplainNavigation(req entity.NavigationRequest) (entity.NavigationDecision, error) {
	return c.views.Explain(req)
}

// OnPreferencesChanged re-applies preferences after a config reload.
func (c *Coordinator) OnPreferencesChanged(ctx context.Context) {
	logging.FromContext(ctx).Info().Msg("preferences changed, re-applying")
	c.views.ApplyPreferences(ctx)
}

// Shutdown destroys every context and waits for background work.
func (c *Coordinator) Shutdown(ctx context.Context) {
	c.views.DestroyAll(ctx)
	c.tasks.Wait()
}

// Wait blocks until background work finished.
func (c *Coordinator) Wait() {
	c.tasks.Wait()
	c.views.Wait()
}

func (c *Coordinator) publishCurrent(id entity.WorkspaceID) {
	if ws, err := c.app.Workspaces.Get(id); err == nil {
		c.app.publishWorkspace(entity.EventWorkspaceUpdated, ws)
	}
}

// fetchIcon downloads the site icon of id in the background.
func (c *Coordinator) fetchIcon(ctx context.Context, id entity.WorkspaceID, force bool) {
	if c.icons == nil {
		return
	}
	bg := logging.Detach(ctx)
	c.tasks.Go(func() {
		changed, err := c.icons.Execute(bg, id, force)
		if err != nil {
			logging.FromContext(bg).Warn().Err(err).Str("workspace_id", string(id)).Msg("icon fetch failed")
			return
		}
		if changed {
			c.publishCurrent(id)
		}
	})
}
