package logging

import (
	"context"

	"github.com/rs/zerolog"
)

const maxLoggedURL = 120

// FromContext returns the logger carried by ctx. Without one it returns a
// disabled logger, so callers never check for nil.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// Detach returns a context that is never cancelled but keeps the logger of
// ctx. Timer callbacks, partition wipes and icon fetches use it to outlive
// the command that started them.
func Detach(ctx context.Context) context.Context {
	return WithContext(context.Background(), *FromContext(ctx))
}

// WithComponent tags every line with the subsystem that wrote it, e.g.
// "runtime", "filter-lists" or "popup".
func WithComponent(ctx context.Context, component string) context.Context {
	return withField(ctx, "component", component)
}

// WithWorkspaceID tags every line with the workspace a callback belongs to.
func WithWorkspaceID(ctx context.Context, workspaceID string) context.Context {
	return withField(ctx, "workspace_id", workspaceID)
}

// WithURL tags every line with a page URL, truncated for readability.
func WithURL(ctx context.Context, url string) context.Context {
	return withField(ctx, "url", TruncateURL(url, maxLoggedURL))
}

func withField(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With().Str(key, value).Logger())
}
