package mock_port

import (
	"sync"

	"github.com/bnema/webdock/internal/domain/entity"
)

// Recorder implements EventPublisher, BadgePublisher and ProgressPublisher
// and keeps everything it receives.
type Recorder struct {
	mu       sync.Mutex
	events   []entity.Event
	badges   []int
	progress []float64
}

func (r *Recorder) Publish(event entity.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) SetBadge(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badges = append(r.badges, count)
}

func (r *Recorder) SetProgress(progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, progress)
}

// Events returns events of the given types, or all events when none given.
func (r *Recorder) Events(types ...entity.EventType) []entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, e := range r.events {
		if len(types) == 0 {
			out = append(out, e)
			continue
		}
		for _, t := range types {
			if e.Type == t {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// LastBadge returns the most recent badge value, or -1 if none.
func (r *Recorder) LastBadge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.badges) == 0 {
		return -1
	}
	return r.badges[len(r.badges)-1]
}

// Progress returns every published progress value.
func (r *Recorder) Progress() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.progress))
	copy(out, r.progress)
	return out
}

// StaticPreferences is a PreferencesProvider returning a fixed snapshot.
type StaticPreferences struct {
	mu    sync.Mutex
	Prefs entity.EffectivePreferences
}

func (p *StaticPreferences) Preferences() entity.EffectivePreferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Prefs
}

// Set replaces the snapshot.
func (p *StaticPreferences) Set(prefs entity.EffectivePreferences) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Prefs = prefs
}
