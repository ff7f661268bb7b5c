// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the application layer to
// remain independent of the rendering engine and the desktop.
package port

import (
	"context"

	"github.com/bnema/webdock/internal/domain/entity"
)

// ContextID identifies a live browsing context inside the engine.
type ContextID uint64

// Load error codes reported by the engine for main-frame failures.
const (
	// LoadErrorAborted is a user or engine cancellation; never surfaced.
	LoadErrorAborted = -3
	// LoadErrorAuthFailed is an authentication failure; the workspace home
	// URL is retried once when the context is left with an empty URL.
	LoadErrorAuthFailed = -338
)

// ContextConfig is everything applied when a browsing context is created.
type ContextConfig struct {
	// PartitionID selects the storage partition, e.g. "persist:<id>".
	PartitionID          string
	Proxy                entity.ProxyConfig
	UserAgent            string // empty means engine default
	ContentFilterEnabled bool
	// ContentFilterLists are rule files compiled into the context filter.
	ContentFilterLists []string
	Extensions         []string
	AudioMuted         bool
	// Hidden contexts are never presented; used as navigation placeholders.
	Hidden bool
}

// LoadFailure describes a failed load.
type LoadFailure struct {
	Code        int
	Description string
	URL         string
	IsMainFrame bool
}

// NewWindowRequest is a page asking to open a new surface.
// The engine never creates the surface itself; the handler decides.
type NewWindowRequest struct {
	URL         string
	FrameName   string
	Disposition entity.Disposition
}

// DownloadRequest is a download the engine is about to start.
type DownloadRequest struct {
	ID                string
	URL               string
	SuggestedFilename string
	MimeType          string
	TotalBytes        int64
}

// DownloadControl lets the application steer a started download.
type DownloadControl interface {
	SetSavePath(path string) error
	Cancel()
}

// ContextCallbacks defines handlers for browsing-context events.
// Implementations may invoke them from any goroutine and after the context
// was destroyed; handlers must tolerate both.
type ContextCallbacks struct {
	OnLoadStart        func()
	OnLoadStop         func()
	OnLoadFail         func(failure LoadFailure)
	OnNavigate         func(url string)
	OnTitleUpdate      func(title string)
	OnNewWindowRequest func(request NewWindowRequest)
	OnDownloadStart    func(request DownloadRequest, control DownloadControl)
	OnDownloadProgress func(id string, received, total int64)
	OnDownloadDone     func(id string, state entity.DownloadState)
}

// BrowsingContext is one isolated browsing surface.
type BrowsingContext interface {
	ID() ContextID
	SetCallbacks(callbacks ContextCallbacks)

	LoadURL(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Stop()

	URL() string
	Title() string
	CanGoBack() bool
	CanGoForward() bool

	UserAgent() string
	SetUserAgent(ua string)
	SetAudioMuted(muted bool)

	// FindInPage starts or continues an in-page search.
	FindInPage(text string, forward bool)
	StopFindInPage()
	IsFinding() bool

	// PageHTML returns the serialized DOM of the main frame.
	PageHTML(ctx context.Context) (string, error)

	// Destroy releases the context and its rendering resources immediately.
	Destroy()
}

// Engine creates browsing contexts.
type Engine interface {
	CreateContext(ctx context.Context, cfg ContextConfig) (BrowsingContext, error)
	DefaultUserAgent() string
}

// Surface is the visible browser area a context is attached to.
type Surface interface {
	Attach(bc BrowsingContext)
	Detach(bc BrowsingContext)
	Attached() BrowsingContext
}

// PopupHost presents unmanaged popup contexts in their own window.
type PopupHost interface {
	ShowPopup(bc BrowsingContext, frameName string)
}
