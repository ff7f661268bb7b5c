package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

// HibernationScheduler keeps at most one pending timer per workspace.
// Scheduling again replaces the previous timer. What happens on expiry is
// decided by the fire callback, which re-checks state at fire time.
type HibernationScheduler struct {
	clock port.Clock
	fire  func(ctx context.Context, id entity.WorkspaceID)

	mu      sync.Mutex
	timers  map[entity.WorkspaceID]port.Timer
	stopped bool
}

// NewHibernationScheduler creates a scheduler calling fire on expiry.
func NewHibernationScheduler(clock port.Clock, fire func(ctx context.Context, id entity.WorkspaceID)) *HibernationScheduler {
	return &HibernationScheduler{
		clock:  clock,
		fire:   fire,
		timers: make(map[entity.WorkspaceID]port.Timer),
	}
}

// Schedule arms the timer for id, cancelling any previous one.
func (s *HibernationScheduler) Schedule(ctx context.Context, id entity.WorkspaceID, timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}

	bg := logging.Detach(ctx)
	var timer port.Timer
	timer = s.clock.AfterFunc(timeout, func() {
		s.mu.Lock()
		current, ok := s.timers[id]
		if !ok || current != timer {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()

		s.fire(bg, id)
	})
	s.timers[id] = timer

	logging.FromContext(ctx).Debug().
		Str("workspace_id", string(id)).
		Dur("timeout", timeout).
		Msg("hibernation scheduled")
}

// Cancel drops the pending timer for id, if any.
func (s *HibernationScheduler) Cancel(id entity.WorkspaceID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, id)
	return true
}

// Pending reports whether a timer is armed for id.
func (s *HibernationScheduler) Pending(id entity.WorkspaceID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Stop cancels every timer and refuses new ones.
func (s *HibernationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.stopped = true
}
