// Package debounce implements a trailing-edge debouncer: each call restarts
// the quiet window and only the last callback within the window fires.
package debounce

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of calls into the final one.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
}

// New returns a debouncer with the given quiet window.
func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Do schedules fn to run once the window elapses without another Do call.
// A call inside the window cancels the pending fn and restarts the timer.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
