package entity

// WorkspaceMeta is process-lifetime runtime state for a workspace.
// It is never persisted. The zero value means not loading, no error, no badge.
type WorkspaceMeta struct {
	IsLoading   bool   `json:"isLoading"`
	DidFailLoad string `json:"didFailLoad,omitempty"`
	BadgeCount  int    `json:"badgeCount"`
}

// NavigationState is what the UI shows for the active workspace's page.
type NavigationState struct {
	WorkspaceID  WorkspaceID `json:"workspaceId"`
	URL          string      `json:"url"`
	Title        string      `json:"title"`
	CanGoBack    bool        `json:"canGoBack"`
	CanGoForward bool        `json:"canGoForward"`
}
