// Package timing rate-limits calls coming from a live editing surface.
//
// Both helpers deliver values in the order they were submitted: once a newer
// value has been delivered, an older one never is.
package timing

import (
	"sync"
	"time"
)

// Debouncer delivers the latest value after no new value has arrived for the
// configured delay. Each Call cancels the pending delivery.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	hasVal  bool
	seq     uint64
	stopped bool

	run *sequencer
}

func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn, run: &sequencer{}}
}

// Call schedules fn(v), replacing any value still waiting.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.seq++
	seq := d.seq
	d.pending = v
	d.hasVal = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Flush delivers the pending value now, if there is one.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	seq := d.seq
	d.mu.Unlock()
	d.fire(seq)
}

// Stop drops any pending value. Later calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.hasVal = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if !d.hasVal || seq != d.seq || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.hasVal = false
	var zero T
	d.pending = zero
	d.mu.Unlock()

	d.run.do(seq, func() { d.fn(v) })
}

// sequencer runs callbacks one at a time and drops any whose sequence number
// is older than one already run. No lock is held while a callback runs, so a
// callback may call back into its Debouncer or Throttler; such a delivery is
// queued and run once the current callback returns.
type sequencer struct {
	mu      sync.Mutex
	last    uint64
	running bool
	next    func()
	nextSeq uint64
}

func (s *sequencer) do(seq uint64, fn func()) {
	s.mu.Lock()
	if seq <= s.last || (s.next != nil && seq <= s.nextSeq) {
		s.mu.Unlock()
		return
	}
	if s.running {
		s.next, s.nextSeq = fn, seq
		s.mu.Unlock()
		return
	}
	s.running = true
	s.last = seq
	s.mu.Unlock()

	for {
		fn()

		s.mu.Lock()
		if s.next == nil {
			s.running = false
			s.mu.Unlock()
			return
		}
		fn, s.last = s.next, s.nextSeq
		s.next = nil
		s.mu.Unlock()
	}
}
