package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/webdock/internal/logging"
)

// StartupTimer records how long each startup phase took.
type StartupTimer struct {
	mu     sync.Mutex
	start  time.Time
	last   time.Time
	phases map[string]time.Duration
	order  []string
	now    func() time.Time
}

// NewStartupTimer creates a timer starting now.
func NewStartupTimer() *StartupTimer {
	return newStartupTimer(time.Now)
}

func newStartupTimer(now func() time.Time) *StartupTimer {
	start := now()
	return &StartupTimer{
		start:  start,
		last:   start,
		phases: make(map[string]time.Duration),
		now:    now,
	}
}

// Mark records the time since the previous mark under phase.
func (t *StartupTimer) Mark(phase string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if _, seen := t.phases[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.phases[phase] += now.Sub(t.last)
	t.last = now
}

// Phase returns the recorded duration of phase.
func (t *StartupTimer) Phase(phase string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.phases[phase]
	return d, ok
}

// Total returns the time since the timer was created.
func (t *StartupTimer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.start)
}

// Log writes every phase at info level.
func (t *StartupTimer) Log(ctx context.Context) {
	t.emit(logging.FromContext(ctx).Info())
}

// LogDebug writes every phase at debug level.
func (t *StartupTimer) LogDebug(ctx context.Context) {
	t.emit(logging.FromContext(ctx).Debug())
}

func (t *StartupTimer) emit(event *zerolog.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event = event.Dur("total", t.now().Sub(t.start))
	for _, phase := range t.order {
		event = event.Dur(phase, t.phases[phase])
	}
	event.Msg("startup timing")
}
