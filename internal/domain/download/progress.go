package download

import (
	"sort"

	"github.com/bnema/webdock/internal/domain/entity"
)

// Tracker holds the in-flight download set. It is not safe for concurrent
// use; callers serialize access.
type Tracker struct {
	items map[string]*entity.DownloadItem
}

func NewTracker() *Tracker {
	return &Tracker{items: make(map[string]*entity.DownloadItem)}
}

// Add starts tracking an item. Settled items are ignored.
func (t *Tracker) Add(item *entity.DownloadItem) {
	if item == nil || item.IsSettled() {
		return
	}
	t.items[item.ID] = item
}

// Get returns the tracked item or nil.
func (t *Tracker) Get(id string) *entity.DownloadItem {
	return t.items[id]
}

// Update records byte counts. It returns false when the id is unknown.
func (t *Tracker) Update(id string, received, total int64) bool {
	item, ok := t.items[id]
	if !ok {
		return false
	}
	if received >= 0 {
		item.ReceivedBytes = received
	}
	if total >= 0 {
		item.TotalBytes = total
	}
	return true
}

// Settle removes an item that reached a terminal state and returns it.
// Once the set is empty all counters are back to zero.
func (t *Tracker) Settle(id string, state entity.DownloadState) *entity.DownloadItem {
	item, ok := t.items[id]
	if !ok {
		return nil
	}
	item.State = state
	delete(t.items, id)
	if len(t.items) == 0 {
		t.items = make(map[string]*entity.DownloadItem)
	}
	return item
}

// ForWorkspace lists in-flight items bound to a workspace, ordered by id.
func (t *Tracker) ForWorkspace(id entity.WorkspaceID) []*entity.DownloadItem {
	var out []*entity.DownloadItem
	for _, item := range t.items {
		if item.WorkspaceID == id {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of in-flight items.
func (t *Tracker) Len() int {
	return len(t.items)
}

// Totals returns the summed received and total bytes across active items.
func (t *Tracker) Totals() (received, total int64) {
	for _, item := range t.items {
		received += item.ReceivedBytes
		total += item.TotalBytes
	}
	return received, total
}

// OverallProgress is sum(received)/sum(total) across active items, in [0,1].
// It is 0 when nothing is in flight or no total is known.
func (t *Tracker) OverallProgress() float64 {
	received, total := t.Totals()
	if total <= 0 {
		return 0
	}
	p := float64(received) / float64(total)
	if p > 1 {
		return 1
	}
	return p
}
