package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/squadkit/squadbot/internal/common/clock Clock,Timer

// Clock abstracts the system clock and its one-shot timer primitive so
// time-driven code can be tested without real waiting.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable one-shot timer.
type Timer interface {
	Stop() bool
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f in its own goroutine after d has elapsed
func (c *DefaultClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
