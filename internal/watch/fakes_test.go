package watch

import (
	"sync"
	"time"
)

// fakeSource is an EventSource driven by the test.
type fakeSource struct {
	events chan struct{}
	errors chan error
	mu     sync.Mutex
	closed int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		events: make(chan struct{}),
		errors: make(chan error),
	}
}

func (s *fakeSource) Events() <-chan struct{} { return s.events }
func (s *fakeSource) Errors() <-chan error    { return s.errors }

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeSource) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeTimer is one callback scheduled on a fakeScheduler.
type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

// fakeScheduler implements AfterFunc with time advanced by hand.
type fakeScheduler struct {
	mu        sync.Mutex
	timers    []*fakeTimer
	durations []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{f: f}
	s.timers = append(s.timers, t)
	s.durations = append(s.durations, d)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// scheduled returns how many callbacks were ever scheduled.
func (s *fakeScheduler) scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// active returns how many callbacks are armed.
func (s *fakeScheduler) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// elapse fires every armed callback, as if the window had passed.
func (s *fakeScheduler) elapse() {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// elapseStale fires callbacks even if they were cancelled, simulating a
// timer that had already fired when Stop was called.
func (s *fakeScheduler) elapseStale() {
	s.mu.Lock()
	due := make([]*fakeTimer, len(s.timers))
	copy(due, s.timers)
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}
