package coordinator_test

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/webdock/internal/application/port"
	mock_port "github.com/bnema/webdock/internal/application/port/mocks"
	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/coordinator"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/infrastructure/clock"
	"github.com/bnema/webdock/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/webdock/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func defaultPrefs() entity.EffectivePreferences {
	return entity.EffectivePreferences{
		DefaultURL:         "https://start.example.com",
		UnreadCountBadge:   true,
		DownloadsDir:       "/downloads",
		HibernationTimeout: time.Minute,
		Proxy:              entity.ProxyConfig{Mode: entity.ProxyModeSystem},
	}
}

type fakePartitions struct {
	mu    sync.Mutex
	wiped []string
}

func (f *fakePartitions) PartitionID(id entity.WorkspaceID, shared bool) string {
	if shared {
		return "persist:shared"
	}
	return "persist:" + string(id)
}

func (f *fakePartitions) Path(partitionID string) (string, error) {
	return filepath.Join("/partitions", partitionID), nil
}

func (f *fakePartitions) Wipe(_ context.Context, partitionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wiped = append(f.wiped, partitionID)
	return nil
}

func (f *fakePartitions) Wiped() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.wiped...)
	sort.Strings(out)
	return out
}

// memFS only answers Exists from a fixed set.
type memFS struct {
	files map[string]bool
}

func (m *memFS) Exists(_ context.Context, path string) (bool, error) { return m.files[path], nil }
func (m *memFS) IsDirectory(context.Context, string) (bool, error)   { return false, nil }
func (m *memFS) GetSize(context.Context, string) (int64, error)      { return 0, nil }
func (m *memFS) RemoveAll(context.Context, string) error             { return nil }
func (m *memFS) WriteFile(context.Context, string, []byte) error     { return nil }

type fakeFilters struct{ lists []string }

func (f fakeFilters) FilterLists() []string               { return f.lists }
func (fakeFilters) Refresh(context.Context) (bool, error) { return false, nil }

type fakeIcons struct{}

func (fakeIcons) FetchIcon(context.Context, string) (string, error) { return "icon.png", nil }

type harness struct {
	ctx        context.Context
	engine     *mock_port.FakeEngine
	surface    *mock_port.FakeSurface
	popups     *mock_port.FakePopupHost
	events     *mock_port.Recorder
	prefs      *mock_port.StaticPreferences
	clock      *clock.Fake
	opener     *mock_port.MockExternalOpener
	inhibitor  *mock_port.MockSuspendInhibitor
	partitions *fakePartitions
	fs         *memFS
	store      *usecase.ManageWorkspacesUseCase
	comps      *coordinator.Components
}

func newHarness(t *testing.T, prefs entity.EffectivePreferences) *harness {
	t.Helper()
	ctx := testContext()

	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "webdock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{
		ctx:        ctx,
		engine:     mock_port.NewFakeEngine(),
		surface:    &mock_port.FakeSurface{},
		popups:     &mock_port.FakePopupHost{},
		events:     &mock_port.Recorder{},
		prefs:      &mock_port.StaticPreferences{Prefs: prefs},
		clock:      clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		partitions: &fakePartitions{},
		fs:         &memFS{files: map[string]bool{}},
	}
	ctrl := gomock.NewController(t)
	h.opener = mock_port.NewMockExternalOpener(ctrl)
	h.inhibitor = mock_port.NewMockSuspendInhibitor(ctrl)

	h.store, err = usecase.NewManageWorkspacesUseCase(ctx, sqlite.NewWorkspaceRepository(db), func() string {
		return h.prefs.Preferences().DefaultURL
	})
	require.NoError(t, err)

	h.wire(t)
	return h
}

// newHarnessWithStore simulates a restart: fresh engine and components
// over the store of prev.
func newHarnessWithStore(t *testing.T, prev *harness) *harness {
	t.Helper()
	h := &harness{
		ctx:        prev.ctx,
		engine:     mock_port.NewFakeEngine(),
		surface:    &mock_port.FakeSurface{},
		popups:     &mock_port.FakePopupHost{},
		events:     &mock_port.Recorder{},
		prefs:      prev.prefs,
		clock:      prev.clock,
		partitions: &fakePartitions{},
		fs:         &memFS{files: map[string]bool{}},
		store:      prev.store,
	}
	ctrl := gomock.NewController(t)
	h.opener = mock_port.NewMockExternalOpener(ctrl)
	h.inhibitor = mock_port.NewMockSuspendInhibitor(ctrl)
	h.wire(t)
	return h
}

func (h *harness) wire(t *testing.T) {
	t.Helper()
	app := &coordinator.AppContext{
		Workspaces:  h.store,
		Preferences: h.prefs,
		Clock:       h.clock,
		Events:      h.events,
		Badge:       h.events,
		Progress:    h.events,
	}
	h.comps = coordinator.Wire(h.ctx, app,
		coordinator.ViewManagerConfig{
			Engine:             h.engine,
			Partitions:         h.partitions,
			Opener:             h.opener,
			PopupHost:          h.popups,
			Filters:            fakeFilters{lists: []string{"/cache/filters/part1.json"}},
			PlaceholderTimeout: 10 * time.Second,
		},
		h.fs,
		h.inhibitor,
		usecase.NewFetchWorkspaceIconUseCase(fakeIcons{}, h.store, h.prefs),
		usecase.NewClearBrowsingDataUseCase(h.partitions, h.store, h.prefs),
		h.surface,
	)
	t.Cleanup(func() { h.comps.Coordinator.Wait() })
}

func portNewWindow(url string) port.NewWindowRequest {
	return port.NewWindowRequest{URL: url, Disposition: entity.DispositionNewWindow}
}

func (h *harness) create(t *testing.T, patch entity.WorkspacePatch) *entity.Workspace {
	t.Helper()
	ws, err := h.comps.Coordinator.Create(h.ctx, patch)
	require.NoError(t, err)
	h.comps.Coordinator.Wait()
	return ws
}

// contextOf returns the live fake context of a workspace.
func (h *harness) contextOf(t *testing.T, id entity.WorkspaceID) *mock_port.FakeContext {
	t.Helper()
	bc, ok := h.comps.Views.Context(id)
	require.True(t, ok, "workspace %s has no live context", id)
	fc, ok := bc.(*mock_port.FakeContext)
	require.True(t, ok)
	return fc
}

func (h *harness) workspace(t *testing.T, id entity.WorkspaceID) *entity.Workspace {
	t.Helper()
	ws, err := h.store.Get(id)
	require.NoError(t, err)
	return ws
}

func findContext(contexts []*mock_port.FakeContext, match func(*mock_port.FakeContext) bool) *mock_port.FakeContext {
	for _, c := range contexts {
		if match(c) {
			return c
		}
	}
	return nil
}

var _ port.PartitionStore = (*fakePartitions)(nil)
var _ port.FileSystem = (*memFS)(nil)
