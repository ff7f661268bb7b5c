package port

import "context"

// ContentFilterSource provides the rule files used by contexts that
// block ads.
type ContentFilterSource interface {
	// FilterLists returns the cached rule files, or nil when none are
	// available yet.
	FilterLists() []string
	// Refresh downloads newer rule files when the cache is stale and
	// reports whether anything changed.
	Refresh(ctx context.Context) (bool, error)
}
