package messaging

import (
	"context"
	"sync"

	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

const defaultSubscriberBuffer = 32

// Broadcaster fans events out to every subscribed UI surface. A slow
// subscriber loses events instead of blocking the publisher.
type Broadcaster struct {
	ctx context.Context

	mu     sync.RWMutex
	nextID int
	subs   map[int]chan entity.Event
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(ctx context.Context) *Broadcaster {
	return &Broadcaster{
		ctx:  logging.WithComponent(ctx, "broadcaster"),
		subs: make(map[int]chan entity.Event),
	}
}

// Subscribe registers a surface. The returned cancel func unsubscribes and
// closes the channel; it is safe to call more than once.
func (b *Broadcaster) Subscribe(buffer int) (<-chan entity.Event, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ch := make(chan entity.Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Broadcaster) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish implements port.EventPublisher.
func (b *Broadcaster) Publish(event entity.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			logging.FromContext(b.ctx).Warn().
				Int("subscriber", id).
				Str("event", string(event.Type)).
				Msg("subscriber queue full, dropping event")
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription and refuses new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
