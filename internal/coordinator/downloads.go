package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/download"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

const inhibitReason = "Downloading files"

// DownloadCoordinator tracks in-flight downloads of every workspace and
// publishes their aggregate progress.
type DownloadCoordinator struct {
	app       *AppContext
	fs        port.FileSystem
	inhibitor port.SuspendInhibitor

	mu       sync.Mutex
	tracker  *download.Tracker
	controls map[string]port.DownloadControl
	reserved map[string]bool
	// engine ids are only unique per context
	keys map[string]string
}

// NewDownloadCoordinator creates a coordinator. inhibitor may be nil.
func NewDownloadCoordinator(app *AppContext, fs port.FileSystem, inhibitor port.SuspendInhibitor) *DownloadCoordinator {
	return &DownloadCoordinator{
		app:       app,
		fs:        fs,
		inhibitor: inhibitor,
		tracker:   download.NewTracker(),
		controls:  make(map[string]port.DownloadControl),
		reserved:  make(map[string]bool),
		keys:      make(map[string]string),
	}
}

func engineKey(id entity.WorkspaceID, engineID string) string {
	return string(id) + ":" + engineID
}

// Start picks a collision-free path in the downloads directory, commits it
// and starts tracking the item.
func (d *DownloadCoordinator) Start(ctx context.Context, id entity.WorkspaceID, req port.DownloadRequest, control port.DownloadControl) (*entity.DownloadItem, error) {
	log := logging.FromContext(ctx)

	dir := d.app.Preferences.Preferences().DownloadsDir
	if dir == "" {
		control.Cancel()
		return nil, fmt.Errorf("failed to start download: no downloads directory configured")
	}

	name := download.SuggestFilename(req.SuggestedFilename, req.URL, req.MimeType)

	d.mu.Lock()
	name = download.MakeUniqueFilename(dir, name, func(path string) bool {
		if d.reserved[path] {
			return true
		}
		exists, err := d.fs.Exists(ctx, path)
		return err == nil && exists
	})
	path := filepath.Join(dir, name)

	itemID := uuid.NewString()
	if req.ID != "" {
		d.keys[engineKey(id, req.ID)] = itemID
	}
	item := &entity.DownloadItem{
		ID:          itemID,
		WorkspaceID: id,
		URL:         req.URL,
		TotalBytes:  req.TotalBytes,
		State:       entity.DownloadProgressing,
		SavePath:    path,
		StartedAt:   d.app.Clock.Now(),
	}
	first := d.tracker.Len() == 0
	d.tracker.Add(item)
	d.controls[itemID] = control
	d.reserved[path] = true
	snapshot := *item
	d.mu.Unlock()

	if err := control.SetSavePath(path); err != nil {
		d.settle(ctx, itemID, entity.DownloadInterrupted)
		control.Cancel()
		return nil, fmt.Errorf("failed to set download destination: %w", err)
	}

	if first && d.inhibitor != nil {
		if err := d.inhibitor.Inhibit(ctx, inhibitReason); err != nil {
			log.Warn().Err(err).Msg("failed to inhibit suspend during download")
		}
	}

	log.Info().
		Str("workspace_id", string(id)).
		Str("download_id", itemID).
		Str("path", path).
		Msg("download started")
	d.publish()
	return &snapshot, nil
}

// Progress records byte counts reported by the engine.
func (d *DownloadCoordinator) Progress(id entity.WorkspaceID, engineID string, received, total int64) {
	d.mu.Lock()
	itemID, ok := d.keys[engineKey(id, engineID)]
	if ok {
		ok = d.tracker.Update(itemID, received, total)
	}
	d.mu.Unlock()

	if ok {
		d.publish()
	}
}

// Done settles a download reported finished by the engine.
func (d *DownloadCoordinator) Done(ctx context.Context, id entity.WorkspaceID, engineID string, state entity.DownloadState) {
	d.mu.Lock()
	itemID, ok := d.keys[engineKey(id, engineID)]
	d.mu.Unlock()
	if !ok {
		return
	}
	d.settle(ctx, itemID, state)
}

// CancelWorkspace cancels every download bound to id.
func (d *DownloadCoordinator) CancelWorkspace(ctx context.Context, id entity.WorkspaceID) int {
	d.mu.Lock()
	items := d.tracker.ForWorkspace(id)
	d.mu.Unlock()

	for _, item := range items {
		d.cancel(ctx, item.ID)
	}
	return len(items)
}

// CancelAll cancels every in-flight download.
func (d *DownloadCoordinator) CancelAll(ctx context.Context) {
	d.mu.Lock()
	ids := make([]string, 0, len(d.controls))
	for id := range d.controls {
		ids = append(ids, id)
	}
	d.mu.Unlock()

	for _, id := range ids {
		d.cancel(ctx, id)
	}
}

// Snapshot returns the aggregate progress in [0,1] and the in-flight count.
func (d *DownloadCoordinator) Snapshot() (progress float64, active int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.OverallProgress(), d.tracker.Len()
}

// Totals returns summed received and total bytes of in-flight items.
func (d *DownloadCoordinator) Totals() (received, total int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Totals()
}

func (d *DownloadCoordinator) cancel(ctx context.Context, itemID string) {
	d.mu.Lock()
	control := d.controls[itemID]
	d.mu.Unlock()
	if control != nil {
		control.Cancel()
	}
	d.settle(ctx, itemID, entity.DownloadCancelled)
}

func (d *DownloadCoordinator) settle(ctx context.Context, itemID string, state entity.DownloadState) {
	d.mu.Lock()
	item := d.tracker.Settle(itemID, state)
	if item == nil {
		d.mu.Unlock()
		return
	}
	delete(d.controls, itemID)
	delete(d.reserved, item.SavePath)
	for k, v := range d.keys {
		if v == itemID {
			delete(d.keys, k)
		}
	}
	empty := d.tracker.Len() == 0
	d.mu.Unlock()

	logging.FromContext(ctx).Info().
		Str("workspace_id", string(item.WorkspaceID)).
		Str("download_id", itemID).
		Str("state", string(state)).
		Msg("download settled")

	if empty && d.inhibitor != nil {
		if err := d.inhibitor.Uninhibit(ctx); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("failed to release suspend inhibitor")
		}
	}
	d.publish()
}

// publish pushes the aggregate progress. An empty set hides the indicator.
func (d *DownloadCoordinator) publish() {
	progress, active := d.Snapshot()

	d.app.Metrics.SetActiveDownloads(active)
	d.app.Metrics.SetDownloadProgress(progress)
	if active == 0 {
		d.app.Progress.SetProgress(-1)
	} else {
		d.app.Progress.SetProgress(progress)
	}
	d.app.Events.Publish(entity.Event{Type: entity.EventDownloadProgress, Progress: progress})
}
