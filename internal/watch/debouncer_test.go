package watch

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestDebouncer(sched *fakeScheduler) (*Debouncer, *atomic.Int32) {
	var calls atomic.Int32
	d := NewDebouncer(50 * time.Millisecond)
	d.SetAfterFunc(sched.AfterFunc)
	d.SetCallback(func() { calls.Add(1) })
	return d, &calls
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	sched := &fakeScheduler{}
	d, calls := newTestDebouncer(sched)

	d.Trigger()
	d.Trigger()
	d.Trigger()

	assert.Equal(t, 3, sched.scheduled())
	assert.Equal(t, 1, sched.active(), "each trigger should cancel the previous window")
	assert.True(t, d.Pending())

	sched.elapse()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_UsesDuration(t *testing.T) {
	sched := &fakeScheduler{}
	d, _ := newTestDebouncer(sched)

	d.Trigger()

	assert.Equal(t, []time.Duration{50 * time.Millisecond}, sched.durations)
	assert.Equal(t, 50*time.Millisecond, d.Duration())
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	sched := &fakeScheduler{}
	d, calls := newTestDebouncer(sched)

	d.Trigger()
	sched.elapse()
	d.Trigger()
	sched.elapse()

	assert.Equal(t, int32(2), calls.Load())
}

func TestDebouncer_StaleFireIgnored(t *testing.T) {
	sched := &fakeScheduler{}
	d, calls := newTestDebouncer(sched)

	d.Trigger()
	d.Trigger()

	// Both callbacks run, but only the latest window counts.
	sched.elapseStale()

	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	sched := &fakeScheduler{}
	d, calls := newTestDebouncer(sched)

	d.Trigger()
	d.Stop()

	assert.False(t, d.Pending())
	assert.Equal(t, 0, sched.active())

	sched.elapseStale()
	d.Trigger()
	sched.elapse()

	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 1, sched.scheduled(), "trigger after stop should not schedule")
}

func TestDebouncer_RealTimer(t *testing.T) {
	var mu sync.Mutex
	var callCount int

	d := NewDebouncer(30 * time.Millisecond)
	d.SetCallback(func() {
		mu.Lock()
		defer mu.Unlock()
		callCount++
	})
	defer d.Stop()

	d.Trigger()
	time.Sleep(10 * time.Millisecond)
	d.Trigger()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return callCount == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, callCount)
}
