package domain

import (
	"container/heap"
	"time"
)

// Scheduler is a virtual clock advanced by frames. Callbacks run on the
// caller's goroutine inside Advance, in due order.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending is the number of scheduled, uncancelled timers.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// After schedules fn at Now()+d. Inside a firing callback Now() is the
// firing timer's due time, so chained delays do not drift with frame jitter.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{sched: s, due: s.now + d, seq: s.seq, fn: fn, index: -1}
	heap.Push(&s.queue, t)
	return t
}

// Advance fires every timer due at or before now and returns how many fired.
// Time never moves backwards.
func (s *Scheduler) Advance(now time.Duration) int {
	fired := 0
	for len(s.queue) > 0 && s.queue[0].due <= now {
		t := heap.Pop(&s.queue).(*Timer)
		if t.due > s.now {
			s.now = t.due
		}
		t.fired = true
		fired++
		if t.fn != nil {
			t.fn()
		}
	}
	if now > s.now {
		s.now = now
	}
	return fired
}

// Timer is a cancellable handle.
type Timer struct {
	sched     *Scheduler
	group     *TimerGroup
	due       time.Duration
	seq       uint64
	fn        func()
	index     int
	fired     bool
	cancelled bool
}

func (t *Timer) Due() time.Duration {
	if t == nil {
		return 0
	}
	return t.due
}

// Stop cancels the timer. It is idempotent and reports whether this call
// prevented the callback from running.
func (t *Timer) Stop() bool {
	if t == nil || t.fired || t.cancelled {
		return false
	}
	t.cancelled = true
	if t.index >= 0 && t.sched != nil {
		heap.Remove(&t.sched.queue, t.index)
	}
	if t.group != nil {
		delete(t.group.timers, t)
	}
	return true
}

func (t *Timer) Active() bool {
	return t != nil && !t.fired && !t.cancelled
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// TimerGroup owns the timers of one component instance. Close cancels all
// of them; timers requested after Close are never scheduled.
type TimerGroup struct {
	sched  *Scheduler
	timers map[*Timer]struct{}
	closed bool
}

func NewTimerGroup(s *Scheduler) *TimerGroup {
	return &TimerGroup{sched: s, timers: map[*Timer]struct{}{}}
}

func (g *TimerGroup) Now() time.Duration {
	return g.sched.Now()
}

func (g *TimerGroup) After(d time.Duration, fn func()) *Timer {
	if g.closed {
		return &Timer{cancelled: true, index: -1}
	}
	var t *Timer
	t = g.sched.After(d, func() {
		delete(g.timers, t)
		if fn != nil {
			fn()
		}
	})
	t.group = g
	g.timers[t] = struct{}{}
	return t
}

// Len is the number of outstanding timers owned by the group. Fired and
// stopped timers leave the group immediately.
func (g *TimerGroup) Len() int {
	return len(g.timers)
}

func (g *TimerGroup) Closed() bool {
	return g.closed
}

// Close cancels every outstanding timer and returns how many were cancelled.
// It is idempotent.
func (g *TimerGroup) Close() int {
	if g.closed {
		return 0
	}
	g.closed = true
	n := 0
	for t := range g.timers {
		if t.Stop() {
			n++
		}
	}
	clear(g.timers)
	return n
}
