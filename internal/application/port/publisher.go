package port

import "github.com/bnema/webdock/internal/domain/entity"

// EventPublisher pushes state changes to every subscribed UI surface.
type EventPublisher interface {
	Publish(event entity.Event)
}

// BadgePublisher shows the application-level badge value.
type BadgePublisher interface {
	SetBadge(count int)
}

// ProgressPublisher shows aggregate download progress.
// A negative value hides the indicator.
type ProgressPublisher interface {
	SetProgress(progress float64)
}

// PreferencesProvider returns the current global preferences snapshot.
type PreferencesProvider interface {
	Preferences() entity.EffectivePreferences
}
