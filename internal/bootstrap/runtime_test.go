package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/webdock/internal/app/messaging"
	mock_port "github.com/bnema/webdock/internal/application/port/mocks"
	"github.com/bnema/webdock/internal/bootstrap"
	"github.com/bnema/webdock/internal/domain/entity"
)

type noopOpener struct{}

func (noopOpener) OpenExternal(context.Context, string) error { return nil }

type noopInhibitor struct{}

func (noopInhibitor) Inhibit(context.Context, string) error { return nil }
func (noopInhibitor) Uninhibit(context.Context) error       { return nil }

func isolatedHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_DATA_HOME", dir+"/data")
	t.Setenv("XDG_STATE_HOME", dir+"/state")
	t.Setenv("XDG_CACHE_HOME", dir+"/cache")
	t.Setenv("XDG_DOWNLOAD_DIR", dir+"/downloads")
	t.Setenv("WEBDOCK_ICONS_FETCH_ENABLED", "false")
	t.Setenv("WEBDOCK_METRICS_LISTEN_ADDR", "")
	t.Setenv("WEBDOCK_CONTENT_FILTER_LISTS_URL", "http://127.0.0.1:1")
}

func TestServices_OpenEmptyStore(t *testing.T) {
	isolatedHome(t)

	svc, err := bootstrap.NewServices(bootstrap.ServicesOptions{Quiet: true})
	require.NoError(t, err)
	defer svc.Close()

	assert.Empty(t, svc.Workspaces.List())
	assert.FileExists(t, svc.Config.GetConfigFile())
	assert.Equal(t, "persist:shared", svc.Partitions.PartitionID("a", true))
}

func TestStartRuntime_RequiresEngine(t *testing.T) {
	isolatedHome(t)

	svc, err := bootstrap.NewServices(bootstrap.ServicesOptions{Quiet: true})
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.StartRuntime(bootstrap.RuntimeOptions{})
	assert.Error(t, err)
}

func TestStartRuntime_CommandsReachTheEngine(t *testing.T) {
	isolatedHome(t)

	svc, err := bootstrap.NewServices(bootstrap.ServicesOptions{Quiet: true})
	require.NoError(t, err)
	defer svc.Close()

	engine := mock_port.NewFakeEngine()
	surface := &mock_port.FakeSurface{}
	rt, err := svc.StartRuntime(bootstrap.RuntimeOptions{
		Engine:    engine,
		Surface:   surface,
		PopupHost: &mock_port.FakePopupHost{},
		Opener:    noopOpener{},
		Inhibitor: noopInhibitor{},
		Badge:     &mock_port.Recorder{},
	})
	require.NoError(t, err)

	ctx := svc.Ctx()
	events, unsubscribe := rt.Events.Subscribe(16)
	defer unsubscribe()

	resp, err := rt.Router.Dispatch(ctx, []byte(
		`{"type":"create-workspace","payload":{"name":"Mail","homeUrl":"https://mail.example.com"}}`))
	require.NoError(t, err)
	assert.Nil(t, resp)

	select {
	case ev := <-events:
		assert.Equal(t, entity.EventWorkspaceCreated, ev.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("no workspace-created event")
	}
	require.Eventually(t, func() bool { return engine.Created() == 1 }, 5*time.Second, 10*time.Millisecond)

	resp, err = rt.Router.Dispatch(ctx, []byte(`{"type":"get-workspaces","requestId":7}`))
	require.NoError(t, err)
	require.Empty(t, resp.Error)
	list, ok := resp.Result.([]*entity.Workspace)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Mail", list[0].Name)

	_, err = rt.Router.Dispatch(ctx, []byte(`{"type":"`+messaging.TypeGetBadgeTotal+`"}`))
	require.NoError(t, err)

	rt.Close(ctx)
	assert.True(t, engine.Last().Destroyed())
}
