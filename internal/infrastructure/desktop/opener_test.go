package desktop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpener_FallsBackToXDGOpen(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := &Opener{
		xdgOpen: "/usr/bin/xdg-open",
		runCommand: func(_ context.Context, name string, args ...string) error {
			gotName = name
			gotArgs = args
			return nil
		},
	}

	require.NoError(t, o.OpenExternal(context.Background(), "https://example.com/a"))
	assert.Equal(t, "/usr/bin/xdg-open", gotName)
	assert.Equal(t, []string{"https://example.com/a"}, gotArgs)
}

func TestOpener_NoBackend(t *testing.T) {
	o := &Opener{}
	err := o.OpenExternal(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xdg-open not found")
}

func TestOpener_CommandError(t *testing.T) {
	o := &Opener{
		xdgOpen: "xdg-open",
		runCommand: func(context.Context, string, ...string) error {
			return errors.New("boom")
		},
	}
	assert.ErrorContains(t, o.OpenExternal(context.Background(), "https://example.com"), "boom")
}

func TestSuspendInhibitor_RefcountWithoutPortal(t *testing.T) {
	ctx := context.Background()
	s := NewSuspendInhibitor(nil)

	require.NoError(t, s.Inhibit(ctx, "download"))
	require.NoError(t, s.Inhibit(ctx, "download"))
	assert.True(t, s.Active())

	require.NoError(t, s.Uninhibit(ctx))
	assert.True(t, s.Active())
	require.NoError(t, s.Uninhibit(ctx))
	assert.False(t, s.Active())

	// Extra releases are ignored.
	require.NoError(t, s.Uninhibit(ctx))
	assert.False(t, s.Active())
}
