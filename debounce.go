package reacton

import (
	"sync"
	"time"
)

// Debouncer is a trailing-edge debounce timer (spec's "Debouncer"): each
// Run cancels any pending timer and reschedules, so only the last call in
// a burst narrower than duration actually fires.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
	pending  bool
	disposed bool
}

// NewDebouncer creates a Debouncer with the given trailing delay.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Run cancels any pending timer and schedules f to run after duration.
func (d *Debouncer) Run(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		d.pending = false
		d.mu.Unlock()
		f()
	})
}

// IsPending reports whether a timer is currently armed.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Cancel disarms any pending timer without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
}

// Dispose disarms any pending timer and permanently stops the Debouncer;
// subsequent Run calls are no-ops.
func (d *Debouncer) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
	d.disposed = true
}

// Throttler is a leading-edge-plus-trailing throttle (spec's "Throttler"):
// the first Run in a window fires immediately; subsequent calls within the
// window replace a pending trailing call that fires once the window ends.
type Throttler struct {
	mu        sync.Mutex
	duration  time.Duration
	timer     *time.Timer
	pending   bool
	pendingFn func()
	disposed  bool
}

// NewThrottler creates a Throttler with the given window.
func NewThrottler(duration time.Duration) *Throttler {
	return &Throttler{duration: duration}
}

// Run executes f immediately if no window is open, otherwise defers it as
// the trailing call for when the current window ends, replacing any
// previously deferred call.
func (t *Throttler) Run(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.duration, t.onWindowEnd)
		t.mu.Unlock()
		f()
		t.mu.Lock()
		return
	}
	t.pending = true
	t.pendingFn = f
}

func (t *Throttler) onWindowEnd() {
	t.mu.Lock()
	t.timer = nil
	if !t.pending {
		t.mu.Unlock()
		return
	}
	fn := t.pendingFn
	t.pending = false
	t.pendingFn = nil
	t.mu.Unlock()
	fn()
}

// IsPending reports whether a trailing call is currently queued.
func (t *Throttler) IsPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Cancel disarms the queued trailing callback, if any. It does not reverse
// a leading call that already ran.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = false
	t.pendingFn = nil
}

// Dispose cancels the trailing callback and permanently stops the
// Throttler; subsequent Run calls are no-ops.
func (t *Throttler) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.pending = false
	t.pendingFn = nil
	t.disposed = true
}
