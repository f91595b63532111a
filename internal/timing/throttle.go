package timing

import (
	"sync"
	"time"
)

// Throttler delivers at most one value per interval. A call arriving inside
// the interval is deferred to the end of it; if several arrive, only the most
// recent is delivered.
type Throttler[T any] struct {
	interval time.Duration
	fn       func(T)

	mu         sync.Mutex
	last       time.Time
	timer      *time.Timer
	pending    T
	pendingSeq uint64
	hasVal     bool
	seq        uint64
	stopped    bool

	run *sequencer
}

func NewThrottler[T any](interval time.Duration, fn func(T)) *Throttler[T] {
	return &Throttler[T]{interval: interval, fn: fn, run: &sequencer{}}
}

// Call delivers v immediately when the interval has elapsed since the last
// delivery, otherwise defers it. The immediate path runs fn on the caller's
// goroutine unless another delivery is still running.
func (t *Throttler[T]) Call(v T) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.seq++
	seq := t.seq
	now := time.Now()
	elapsed := now.Sub(t.last)

	if t.timer == nil && elapsed >= t.interval {
		t.last = now
		t.mu.Unlock()
		t.run.do(seq, func() { t.fn(v) })
		return
	}

	t.pending = v
	t.pendingSeq = seq
	t.hasVal = true
	if t.timer == nil {
		t.timer = time.AfterFunc(t.interval-elapsed, t.fireTrailing)
	}
	t.mu.Unlock()
}

// Stop drops any deferred value. Later calls are ignored.
func (t *Throttler[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.hasVal = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Throttler[T]) fireTrailing() {
	t.mu.Lock()
	t.timer = nil
	if !t.hasVal || t.stopped {
		t.mu.Unlock()
		return
	}
	v, seq := t.pending, t.pendingSeq
	var zero T
	t.pending = zero
	t.hasVal = false
	t.last = time.Now()
	t.mu.Unlock()

	t.run.do(seq, func() { t.fn(v) })
}
