package coordinator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/webdock/internal/application/port"
	mock_port "github.com/bnema/webdock/internal/application/port/mocks"
	"github.com/bnema/webdock/internal/domain/entity"
)

func TestDownloads_AggregateProgressAndCleanup(t *testing.T) {
	h := newHarness(t, defaultPrefs())
	ws := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com")})
	fc := h.contextOf(t, ws.ID)
	h.fs.files["/downloads/report.pdf"] = true

	gomock.InOrder(
		h.inhibitor.EXPECT().Inhibit(gomock.Any(), gomock.Any()).Return(nil),
		h.inhibitor.EXPECT().Uninhibit(gomock.Any()).Return(nil),
	)

	first, second := &mock_port.FakeDownload{}, &mock_port.FakeDownload{}
	fc.FireDownloadStart(port.DownloadRequest{ID: "1", URL: "https://mail.example.com/files/report.pdf", TotalBytes: 100}, first)
	fc.FireDownloadStart(port.DownloadRequest{ID: "2", SuggestedFilename: "report.pdf", TotalBytes: 200}, second)

	assert.Equal(t, "/downloads/report_(1).pdf", first.SavePath())
	assert.Equal(t, "/downloads/report_(2).pdf", second.SavePath(), "in-flight paths are reserved")

	fc.FireDownloadProgress("1", 50, 100)
	fc.FireDownloadProgress("2", 50, 200)

	progress, active := h.comps.Downloads.Snapshot()
	assert.Equal(t, 2, active)
	assert.InDelta(t, 100.0/300.0, progress, 1e-9)

	fc.FireDownloadDone("1", entity.DownloadCompleted)
	fc.FireDownloadDone("2", entity.DownloadCompleted)

	progress, active = h.comps.Downloads.Snapshot()
	assert.Equal(t, 0, active)
	assert.Zero(t, progress)
	received, total := h.comps.Downloads.Totals()
	assert.Zero(t, received)
	assert.Zero(t, total)

	published := h.events.Progress()
	require.NotEmpty(t, published)
	assert.Equal(t, -1.0, published[len(published)-1], "indicator hidden when idle")
}

func TestDownloads_UnknownIDsAreIgnored(t *testing.T) {
	h := newHarness(t, defaultPrefs())
	ws := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com")})
	fc := h.contextOf(t, ws.ID)

	fc.FireDownloadProgress("nope", 10, 20)
	fc.FireDownloadDone("nope", entity.DownloadCompleted)

	_, active := h.comps.Downloads.Snapshot()
	assert.Equal(t, 0, active)
	assert.Empty(t, h.events.Progress())
}

func TestDownloads_RejectedWithoutDirectory(t *testing.T) {
	prefs := defaultPrefs()
	prefs.DownloadsDir = ""
	h := newHarness(t, prefs)
	ws := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com")})

	d := &mock_port.FakeDownload{}
	h.contextOf(t, ws.ID).FireDownloadStart(port.DownloadRequest{ID: "1", URL: "https://x.org/a.zip"}, d)

	assert.True(t, d.Cancelled())
	_, active := h.comps.Downloads.Snapshot()
	assert.Equal(t, 0, active)
}

func TestCoordinator_RemoveCancelsTimersAndDownloads(t *testing.T) {
	h := newHarness(t, hibernatingPrefs())
	a := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com")})
	b := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://chat.example.org")})
	fb := h.contextOf(t, b.ID)

	h.inhibitor.EXPECT().Inhibit(gomock.Any(), gomock.Any()).Return(nil)
	h.inhibitor.EXPECT().Uninhibit(gomock.Any()).Return(nil)

	d := &mock_port.FakeDownload{}
	fb.FireDownloadStart(port.DownloadRequest{ID: "7", URL: "https://chat.example.org/f.bin", TotalBytes: 10}, d)

	require.NoError(t, h.comps.Coordinator.SetActive(h.ctx, b.ID))
	require.NoError(t, h.comps.Coordinator.SetActive(h.ctx, a.ID))
	require.True(t, h.comps.Views.Hibernation().Pending(b.ID))

	require.NoError(t, h.comps.Coordinator.Remove(h.ctx, b.ID))
	h.comps.Coordinator.Wait()

	assert.True(t, d.Cancelled())
	assert.False(t, h.comps.Views.Hibernation().Pending(b.ID))
	assert.True(t, fb.Destroyed())
	assert.Equal(t, []string{"persist:" + string(b.ID)}, h.partitions.Wiped())

	h.clock.Advance(time.Hour)
	assert.True(t, h.comps.Views.Live(a.ID))

	removed := h.events.Events(entity.EventWorkspaceRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, b.ID, removed[0].WorkspaceID)
}
