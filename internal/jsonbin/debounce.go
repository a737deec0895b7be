package jsonbin

import (
	"sync"
	"time"
)

// Debouncer coalesces mutation bursts into one trailing-edge callback: each
// Trigger cancels and reschedules the single pending timer, so fn runs once
// per quiet period with whatever state exists by then.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A Trigger may land between this timer firing and the lock being
		// taken. The reschedule supersedes this callback; leave the new
		// timer in place so Flush and Stop still see it.
		superseded := d.timer != t
		if !superseded {
			d.timer = nil
		}
		d.mu.Unlock()
		if !superseded {
			d.fn()
		}
	})
	d.timer = t
}

// Flush runs the callback immediately if a trigger is pending. Used at
// shutdown so the last mutation still reaches the remote bin.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

// Stop cancels any pending trigger without firing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
