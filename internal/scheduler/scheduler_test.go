package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *timerScheduler {
	t.Helper()
	s, err := New(&Config{})
	require.NoError(t, err)
	return s
}

func TestScheduleFires(t *testing.T) {
	s := newTestScheduler(t)
	fired := make(chan struct{})

	s.Schedule("session-1", time.Now().Add(10*time.Millisecond), func() {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}

	assert.False(t, s.Pending("session-1"))
}

func TestSchedulePastInstantFiresImmediately(t *testing.T) {
	s := newTestScheduler(t)
	fired := make(chan struct{})

	s.Schedule("session-1", time.Now().Add(-time.Minute), func() {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestScheduleReplacesPending(t *testing.T) {
	s := newTestScheduler(t)
	fired := make(chan string, 2)

	s.Schedule("session-1", time.Now().Add(20*time.Millisecond), func() {
		fired <- "first"
	})
	s.Schedule("session-1", time.Now().Add(30*time.Millisecond), func() {
		fired <- "second"
	})

	select {
	case got := <-fired:
		assert.Equal(t, "second", got)
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}

	// The replaced callback must never run.
	select {
	case got := <-fired:
		t.Fatalf("unexpected extra fire: %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelPreventsFire(t *testing.T) {
	s := newTestScheduler(t)
	fired := make(chan struct{}, 1)

	s.Schedule("session-1", time.Now().Add(50*time.Millisecond), func() {
		fired <- struct{}{}
	})
	s.Cancel("session-1")

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(150 * time.Millisecond):
	}

	assert.False(t, s.Pending("session-1"))
}

func TestCancelAfterFireIsNoOp(t *testing.T) {
	s := newTestScheduler(t)
	fired := make(chan struct{})

	s.Schedule("session-1", time.Now(), func() {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}

	s.Cancel("session-1")
	s.Cancel("session-1")
}

func TestCancelUnknownKeyIsNoOp(t *testing.T) {
	s := newTestScheduler(t)
	s.Cancel("never-scheduled")
}

func TestIndependentKeys(t *testing.T) {
	s := newTestScheduler(t)
	fired := make(chan string, 2)

	s.Schedule("session-1", time.Now().Add(10*time.Millisecond), func() {
		fired <- "session-1"
	})
	s.Schedule("session-2", time.Now().Add(10*time.Millisecond), func() {
		fired <- "session-2"
	})

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case key := <-fired:
			got[key] = true
		case <-time.After(time.Second):
			t.Fatal("callbacks never fired")
		}
	}

	assert.True(t, got["session-1"])
	assert.True(t, got["session-2"])
}
