package download

import (
	"testing"

	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_OverallProgress(t *testing.T) {
	tr := NewTracker()
	assert.Zero(t, tr.OverallProgress())

	tr.Add(&entity.DownloadItem{ID: "a", TotalBytes: 100, ReceivedBytes: 50, State: entity.DownloadProgressing})
	tr.Add(&entity.DownloadItem{ID: "b", TotalBytes: 200, ReceivedBytes: 50, State: entity.DownloadProgressing})

	assert.InDelta(t, 100.0/300.0, tr.OverallProgress(), 1e-9)
}

func TestTracker_UnknownTotalIsZero(t *testing.T) {
	tr := NewTracker()
	tr.Add(&entity.DownloadItem{ID: "a", ReceivedBytes: 10, State: entity.DownloadProgressing})
	assert.Zero(t, tr.OverallProgress())
}

func TestTracker_SettleResetsWhenEmpty(t *testing.T) {
	tr := NewTracker()
	tr.Add(&entity.DownloadItem{ID: "a", TotalBytes: 10, State: entity.DownloadProgressing})
	require.True(t, tr.Update("a", 5, -1))
	assert.False(t, tr.Update("missing", 1, 1))

	settled := tr.Settle("a", entity.DownloadCompleted)
	require.NotNil(t, settled)
	assert.Equal(t, entity.DownloadCompleted, settled.State)
	assert.Equal(t, 0, tr.Len())

	received, total := tr.Totals()
	assert.Zero(t, received)
	assert.Zero(t, total)
	assert.Nil(t, tr.Settle("a", entity.DownloadCompleted))
}

func TestTracker_ForWorkspace(t *testing.T) {
	tr := NewTracker()
	tr.Add(&entity.DownloadItem{ID: "2", WorkspaceID: "w1", State: entity.DownloadProgressing})
	tr.Add(&entity.DownloadItem{ID: "1", WorkspaceID: "w1", State: entity.DownloadProgressing})
	tr.Add(&entity.DownloadItem{ID: "3", WorkspaceID: "w2", State: entity.DownloadProgressing})
	tr.Add(&entity.DownloadItem{ID: "4", WorkspaceID: "w1", State: entity.DownloadCompleted})

	items := tr.ForWorkspace("w1")
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
}
