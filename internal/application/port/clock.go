package port

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired.
	Stop() bool
}

// Clock abstracts time for timer-driven components.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
