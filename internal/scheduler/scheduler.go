// Package scheduler provides keyed one-shot deferred callbacks.
package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/squadkit/squadbot/internal/common/clock"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_scheduler.go github.com/squadkit/squadbot/internal/scheduler Scheduler

// Scheduler arms at most one pending callback per key. Scheduling a key that
// already has a pending callback replaces it; cancelling an unknown or
// already-fired key is a no-op. A callback fires at most once: its handle is
// discarded before the callback body runs, so a cancel racing with the fire
// can neither double-invoke nor resurrect it.
type Scheduler interface {
	Schedule(key string, at time.Time, fn func())
	Cancel(key string)
}

// Config holds configuration for the timer scheduler
type Config struct {
	Clock clock.Clock
}

// timerScheduler implements Scheduler on top of clock.AfterFunc.
type timerScheduler struct {
	clock clock.Clock

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	timer clock.Timer
}

// New creates a new timer-backed scheduler
func New(cfg *Config) (*timerScheduler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &timerScheduler{
		clock:   c,
		entries: make(map[string]*entry),
	}, nil
}

// Schedule arms fn to run at the given instant, replacing any pending
// callback for the same key. Instants in the past fire immediately.
func (s *timerScheduler) Schedule(key string, at time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		old.timer.Stop()
		delete(s.entries, key)
	}

	d := at.Sub(s.clock.Now())
	if d < 0 {
		d = 0
	}

	e := &entry{}
	e.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		cur, ok := s.entries[key]
		if !ok || cur != e {
			// Cancelled or replaced after the timer was committed to firing.
			s.mu.Unlock()
			return
		}
		delete(s.entries, key)
		s.mu.Unlock()

		fn()
	})
	s.entries[key] = e
}

// Cancel disarms the pending callback for key, if any.
func (s *timerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.timer.Stop()
		delete(s.entries, key)
	}
}

// Pending reports whether a callback is armed for key.
func (s *timerScheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[key]
	return ok
}
