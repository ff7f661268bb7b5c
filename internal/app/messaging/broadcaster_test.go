package messaging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/webdock/internal/app/messaging"
	"github.com/bnema/webdock/internal/domain/entity"
)

func TestBroadcaster_FansOut(t *testing.T) {
	b := messaging.NewBroadcaster(testContext())
	first, cancelFirst := b.Subscribe(4)
	second, cancelSecond := b.Subscribe(4)
	defer cancelSecond()
	assert.Equal(t, 2, b.Subscribers())

	b.Publish(entity.Event{Type: entity.EventBadgeChanged, BadgeTotal: 3})

	got := <-first
	assert.Equal(t, 3, got.BadgeTotal)
	got = <-second
	assert.Equal(t, entity.EventBadgeChanged, got.Type)

	cancelFirst()
	cancelFirst()
	_, open := <-first
	assert.False(t, open)
	assert.Equal(t, 1, b.Subscribers())
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := messaging.NewBroadcaster(testContext())
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(entity.Event{Type: entity.EventWorkspaceCreated, WorkspaceID: "a"})
	b.Publish(entity.Event{Type: entity.EventWorkspaceCreated, WorkspaceID: "b"})

	got := <-ch
	assert.Equal(t, entity.WorkspaceID("a"), got.WorkspaceID)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %v", extra)
	default:
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := messaging.NewBroadcaster(testContext())
	ch, cancel := b.Subscribe(0)
	b.Close()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	late, _ := b.Subscribe(1)
	_, open = <-late
	require.False(t, open)
}
