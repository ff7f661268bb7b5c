package entity

// EventType names a state change broadcast to UI surfaces.
type EventType string

const (
	EventWorkspaceCreated       EventType = "workspace-created"
	EventWorkspaceUpdated       EventType = "workspace-updated"
	EventWorkspaceRemoved       EventType = "workspace-removed"
	EventWorkspaceMetaChanged   EventType = "workspace-meta-changed"
	EventBadgeChanged           EventType = "badge-changed"
	EventNavigationStateChanged EventType = "navigation-state-changed"
	EventDownloadProgress       EventType = "download-progress"
)

// Event is the envelope pushed to every subscribed UI surface.
type Event struct {
	Type        EventType        `json:"type"`
	WorkspaceID WorkspaceID      `json:"workspaceId,omitempty"`
	Workspace   *Workspace       `json:"workspace,omitempty"`
	Meta        *WorkspaceMeta   `json:"meta,omitempty"`
	Navigation  *NavigationState `json:"navigation,omitempty"`
	BadgeTotal  int              `json:"badgeTotal,omitempty"`
	Progress    float64          `json:"progress,omitempty"`
}
