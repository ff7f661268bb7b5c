package port

import "context"

//go:generate mockgen -source=desktop.go -destination=mocks/mock_desktop.go -package=mock_port

// ExternalOpener hands URLs to the user's default browser.
type ExternalOpener interface {
	OpenExternal(ctx context.Context, url string) error
}

// SuspendInhibitor keeps the machine awake. Calls are reference counted:
// every Inhibit must be balanced by one Uninhibit.
type SuspendInhibitor interface {
	Inhibit(ctx context.Context, reason string) error
	Uninhibit(ctx context.Context) error
}
