package coordinator

import (
	"context"
	"sync"

	"github.com/bnema/webdock/internal/domain/badge"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

// BadgeAggregator publishes the application-level unread count.
type BadgeAggregator struct {
	app  *AppContext
	meta *MetaCache

	mu    sync.Mutex
	total int
}

func NewBadgeAggregator(app *AppContext, meta *MetaCache) *BadgeAggregator {
	return &BadgeAggregator{app: app, meta: meta}
}

// Total returns the last published value.
func (b *BadgeAggregator) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Refresh sums the counts of awake workspaces whose notifications are not
// disabled and publishes the result. The badge is always pushed; the
// badge-changed event only fires when the total moved.
func (b *BadgeAggregator) Refresh(ctx context.Context) int {
	total := 0
	if b.app.Preferences.Preferences().UnreadCountBadge {
		var counts []int
		for _, ws := range b.app.Workspaces.List() {
			if ws.Hibernated || ws.DisableNotifications {
				continue
			}
			counts = append(counts, b.meta.Get(ws.ID).BadgeCount)
		}
		total = badge.Sum(counts...)
	}

	b.mu.Lock()
	changed := total != b.total
	b.total = total
	b.mu.Unlock()

	b.app.Badge.SetBadge(total)
	b.app.Metrics.SetBadgeTotal(total)
	if changed {
		b.app.Events.Publish(entity.Event{Type: entity.EventBadgeChanged, BadgeTotal: total})
		logging.FromContext(ctx).Debug().Int("total", total).Msg("badge total changed")
	}
	return total
}
