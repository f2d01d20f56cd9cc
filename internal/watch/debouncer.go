package watch

import (
	"sync"
	"time"
)

// AfterFunc schedules f to run once after d. The returned cancel function
// prevents f from running if it has not started, and reports whether it did
// so. time.AfterFunc adapted through RealAfterFunc is the production
// implementation.
type AfterFunc func(d time.Duration, f func()) (cancel func() bool)

// RealAfterFunc schedules f on a time.Timer.
func RealAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Debouncer runs its callback once a quiet period has passed since the last
// Trigger. Each Trigger restarts the window.
type Debouncer struct {
	duration   time.Duration
	afterFunc  AfterFunc
	mutex      sync.Mutex
	cancel     func() bool
	generation uint64
	callback   func()
	stopped    bool
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration:  duration,
		afterFunc: RealAfterFunc,
	}
}

// SetCallback sets the function run when a window elapses.
func (d *Debouncer) SetCallback(callback func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// SetAfterFunc replaces the scheduler. Used by tests to control time.
func (d *Debouncer) SetAfterFunc(afterFunc AfterFunc) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.afterFunc = afterFunc
}

// Duration returns the quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Trigger starts the quiet period, cancelling a window already in progress.
func (d *Debouncer) Trigger() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}

	d.generation++
	gen := d.generation
	d.cancel = d.afterFunc(d.duration, func() {
		d.fire(gen)
	})
}

// fire runs the callback unless the window it belongs to was superseded.
// A cancelled timer can still fire when Stop loses the race with it, hence
// the generation check.
func (d *Debouncer) fire(gen uint64) {
	d.mutex.Lock()
	if d.stopped || gen != d.generation {
		d.mutex.Unlock()
		return
	}
	d.cancel = nil
	callback := d.callback
	d.mutex.Unlock()

	if callback != nil {
		callback()
	}
}

// Pending reports whether a window is armed and has not elapsed.
func (d *Debouncer) Pending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.cancel != nil
}

// Stop cancels any pending window. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.generation++
	d.stopped = true
}
