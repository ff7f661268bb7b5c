// Package coordinator owns the runtime side of workspaces: their browsing
// contexts, hibernation timers, badge aggregation and downloads.
package coordinator

import (
	"errors"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/domain/entity"
)

// ErrContextUnavailable is returned when a workspace has no live context
// and none could be created.
var ErrContextUnavailable = errors.New("browsing context unavailable")

// AppContext is the explicit application state handed to every component.
type AppContext struct {
	Workspaces  *usecase.ManageWorkspacesUseCase
	Preferences port.PreferencesProvider
	Clock       port.Clock
	Events      port.EventPublisher
	Badge       port.BadgePublisher
	Progress    port.ProgressPublisher
	Metrics     port.Metrics
}

// withDefaults fills optional collaborators with no-op implementations.
func (a *AppContext) withDefaults() *AppContext {
	c := *a
	if c.Events == nil {
		c.Events = nopPublisher{}
	}
	if c.Badge == nil {
		c.Badge = nopPublisher{}
	}
	if c.Progress == nil {
		c.Progress = nopPublisher{}
	}
	if c.Metrics == nil {
		c.Metrics = port.NopMetrics{}
	}
	return &c
}

// EffectivePreferences resolves ws overrides over the global snapshot.
func (a *AppContext) EffectivePreferences(ws *entity.Workspace) entity.EffectivePreferences {
	var override *entity.Preferences
	if ws != nil {
		override = ws.Preferences
	}
	return entity.ResolvePreferences(override, a.Preferences.Preferences())
}

func (a *AppContext) publishWorkspace(eventType entity.EventType, ws *entity.Workspace) {
	if ws == nil {
		return
	}
	a.Events.Publish(entity.Event{Type: eventType, WorkspaceID: ws.ID, Workspace: ws})
}

type nopPublisher struct{}

func (nopPublisher) Publish(entity.Event) {}
func (nopPublisher) SetBadge(int)         {}
func (nopPublisher) SetProgress(float64)  {}
