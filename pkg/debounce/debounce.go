// Package debounce coalesces bursts of calls into at most two invocations.
//
// A [Debouncer] fires on the leading edge of a burst (the first call after a
// quiet period) and again on the trailing edge (once the burst has been quiet
// for the wait duration) if more calls arrived in between. Every call during
// the burst restarts the wait. A single isolated call fires exactly once.
//
//	d := debounce.New(600*time.Millisecond, redraw)
//	defer d.Stop()
//	for range resizeEvents {
//	    d.Trigger()
//	}
//
// Invocations never overlap: the function runs under a lock, so a trailing
// invocation waits for a slow leading one to finish.
package debounce

import (
	"sync"
	"time"
)

// Option configures a [Debouncer].
type Option func(*Debouncer)

// WithLeading controls whether the first call of a burst fires immediately.
func WithLeading(on bool) Option { return func(d *Debouncer) { d.leading = on } }

// WithTrailing controls whether a burst fires again once it goes quiet.
func WithTrailing(on bool) Option { return func(d *Debouncer) { d.trailing = on } }

// Debouncer coalesces calls to a function. It is safe for concurrent use.
type Debouncer struct {
	wait     time.Duration
	fn       func()
	leading  bool
	trailing bool

	mu      sync.Mutex
	timer   *time.Timer
	pending bool // a call arrived that has not been invoked yet
	last    time.Time
	gen     uint64

	run sync.Mutex
}

// New returns a Debouncer that invokes fn on both edges by default.
func New(wait time.Duration, fn func(), opts ...Option) *Debouncer {
	d := &Debouncer{wait: wait, fn: fn, leading: true, trailing: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger records a call.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	d.last = time.Now()
	idle := d.timer == nil
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.expire(gen) })

	fireNow := idle && d.leading
	if !fireNow {
		d.pending = true
	}
	d.mu.Unlock()

	if fireNow {
		d.invoke()
	}
}

func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	fire := d.pending && d.trailing
	d.pending = false
	d.mu.Unlock()

	if fire {
		d.invoke()
	}
}

func (d *Debouncer) invoke() {
	d.run.Lock()
	defer d.run.Unlock()
	d.fn()
}

// Flush immediately invokes a pending trailing call, if any, and ends the
// current burst.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	fire := d.pending && d.trailing
	d.pending = false
	d.mu.Unlock()

	if fire {
		d.invoke()
	}
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}

// Pending reports whether a trailing invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil && d.pending && d.trailing
}

// LastCall returns the time of the most recent [Debouncer.Trigger].
func (d *Debouncer) LastCall() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
