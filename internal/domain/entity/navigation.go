package entity

// Disposition describes how a requested navigation wants to open.
type Disposition string

const (
	DispositionDefault         Disposition = "default"
	DispositionForegroundTab   Disposition = "foreground-tab"
	DispositionBackgroundTab   Disposition = "background-tab"
	DispositionNewWindow       Disposition = "new-window"
	DispositionForcedNewWindow Disposition = "forced-new-window"
	DispositionOther           Disposition = "other"
)

// IsTab reports whether the request asks for a browser tab.
func (d Disposition) IsTab() bool {
	return d == DispositionForegroundTab || d == DispositionBackgroundTab
}

// NavigationAction is the outcome of a routing decision.
type NavigationAction string

const (
	ActionLoadInPlace    NavigationAction = "load-in-place"
	ActionOpenNewWindow  NavigationAction = "open-new-window"
	ActionOpenExternally NavigationAction = "open-externally"
	ActionBlock          NavigationAction = "block"
)

// NavigationOptions are explicit hints from the caller.
type NavigationOptions struct {
	ForceNewWindow bool `json:"forceNewWindow,omitempty"`
}

// NavigationRequest is one pending navigation waiting for a routing decision.
type NavigationRequest struct {
	TargetURL          string            `json:"targetUrl"`
	Disposition        Disposition       `json:"disposition"`
	TriggerWorkspaceID WorkspaceID       `json:"triggerWorkspaceId,omitempty"`
	CurrentURL         string            `json:"currentUrl,omitempty"`
	HomeURL            string            `json:"homeUrl,omitempty"`
	Options            NavigationOptions `json:"options"`
}

// NavigationDecision is the result of the policy engine.
// Placeholder is set when the destination is not yet known and a hidden
// context must watch its first navigation before deciding again.
type NavigationDecision struct {
	Action      NavigationAction `json:"action"`
	Reason      string           `json:"reason"`
	Placeholder bool             `json:"placeholder,omitempty"`
}
