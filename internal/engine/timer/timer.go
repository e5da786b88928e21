// Package timer provides a single-threaded deferred-callback scheduler.
//
// Callbacks never run on their own goroutine: the owner calls Tick once per
// frame and due callbacks fire inside that call, in deadline order.
package timer

import (
	"container/heap"
	"time"
)

// Scheduler holds pending timers. It is not safe for concurrent use.
type Scheduler struct {
	now     time.Time
	pending timerHeap
	seq     uint64
}

// Timer is a pending callback.
type Timer struct {
	sched    *Scheduler
	deadline time.Time
	fn       func()
	seq      uint64
	index    int // heap index, -1 when not pending
}

// NewScheduler creates a scheduler whose clock starts at now.
func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// Now returns the scheduler's current time. While a callback runs this is
// the callback's deadline, so timers chained from it stay exact.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After schedules fn to run d after the scheduler's current time.
// Negative durations are treated as zero.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{sched: s, deadline: s.now.Add(d), fn: fn, seq: s.seq}
	heap.Push(&s.pending, t)
	return t
}

// Stop cancels t. It reports whether the timer was still pending.
func (s *Scheduler) Stop(t *Timer) bool {
	if t == nil || t.index < 0 || t.index >= len(s.pending) || s.pending[t.index] != t {
		return false
	}
	heap.Remove(&s.pending, t.index)
	return true
}

// StopAll cancels every pending timer.
func (s *Scheduler) StopAll() {
	for _, t := range s.pending {
		t.index = -1
	}
	s.pending = s.pending[:0]
}

// Pending returns the number of scheduled timers.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Tick advances the clock to now and runs every callback due by then.
// Callbacks scheduled from inside a callback run in the same Tick if they
// are already due. Time never moves backwards.
func (s *Scheduler) Tick(now time.Time) int {
	if now.Before(s.now) {
		now = s.now
	}
	fired := 0
	for len(s.pending) > 0 {
		next := s.pending[0]
		if next.deadline.After(now) {
			break
		}
		heap.Pop(&s.pending)
		s.now = next.deadline
		next.fn()
		fired++
	}
	s.now = now
	return fired
}

// Stop cancels the timer. It reports whether it was still pending.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	return t.sched.Stop(t)
}

// Deadline returns when t fires.
func (t *Timer) Deadline() time.Time {
	return t.deadline
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
