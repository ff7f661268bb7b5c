package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartupTimer_Phases(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	timer := newStartupTimer(func() time.Time { return now })

	now = now.Add(20 * time.Millisecond)
	timer.Mark("config")
	now = now.Add(5 * time.Millisecond)
	timer.Mark("database")
	now = now.Add(5 * time.Millisecond)
	timer.Mark("config")

	d, ok := timer.Phase("config")
	assert.True(t, ok)
	assert.Equal(t, 25*time.Millisecond, d)

	d, ok = timer.Phase("database")
	assert.True(t, ok)
	assert.Equal(t, 5*time.Millisecond, d)

	_, ok = timer.Phase("missing")
	assert.False(t, ok)
	assert.Equal(t, 30*time.Millisecond, timer.Total())

	// Without a logger in the context this is a no-op.
	timer.Log(context.Background())
	timer.LogDebug(context.Background())
}
