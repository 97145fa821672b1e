package domain

import "time"

type RevealState int

const (
	RevealIdle RevealState = iota
	RevealWaiting
	RevealRevealing
	RevealDone
)

func (s RevealState) String() string {
	switch s {
	case RevealIdle:
		return "idle"
	case RevealWaiting:
		return "waiting"
	case RevealRevealing:
		return "revealing"
	case RevealDone:
		return "done"
	default:
		return "unknown"
	}
}

// RevealBlock is one block of a timed reveal. Delay is measured from the
// previous reveal, or from the start trigger for the first block.
type RevealBlock struct {
	Delay     time.Duration
	Highlight bool
}

// RevealEvents are optional callbacks; at is the scheduler time of the event.
type RevealEvents struct {
	OnReveal func(index int, at time.Duration)
	OnDone   func(at time.Duration)
	OnReady  func(at time.Duration)
}

// RevealSequence reveals blocks one after another on a timer group. The
// reveal pointer only moves forward and Done is terminal.
type RevealSequence struct {
	blocks    []RevealBlock
	timers    *TimerGroup
	settle    time.Duration
	events    RevealEvents
	state     RevealState
	next      int
	revealed  int
	pending   *Timer
	ready     bool
	cancelled bool
}

func NewRevealSequence(timers *TimerGroup, blocks []RevealBlock, settle time.Duration, events RevealEvents) *RevealSequence {
	copied := make([]RevealBlock, len(blocks))
	copy(copied, blocks)
	return &RevealSequence{blocks: copied, timers: timers, settle: settle, events: events}
}

// Start leaves Idle. An empty sequence goes straight to Done without
// scheduling anything. Start is a no-op in any other state.
func (r *RevealSequence) Start() {
	if r.state != RevealIdle || r.cancelled {
		return
	}
	if len(r.blocks) == 0 {
		r.finish()
		return
	}
	r.wait(0)
}

// Cancel drops every pending timer. It is idempotent and the sequence keeps
// its current state.
func (r *RevealSequence) Cancel() {
	if r.cancelled {
		return
	}
	r.cancelled = true
	r.pending.Stop()
	r.pending = nil
}

func (r *RevealSequence) wait(i int) {
	r.state = RevealWaiting
	r.next = i
	r.pending = r.timers.After(r.blocks[i].Delay, r.reveal)
}

func (r *RevealSequence) reveal() {
	r.pending = nil
	if r.cancelled {
		return
	}
	i := r.next
	r.state = RevealRevealing
	r.revealed = i + 1
	if r.events.OnReveal != nil {
		r.events.OnReveal(i, r.timers.Now())
	}
	if r.revealed == len(r.blocks) {
		r.finish()
		return
	}
	r.wait(i + 1)
}

func (r *RevealSequence) finish() {
	r.state = RevealDone
	r.next = len(r.blocks)
	if r.events.OnDone != nil {
		r.events.OnDone(r.timers.Now())
	}
	if len(r.blocks) == 0 || r.settle <= 0 {
		r.settled()
		return
	}
	r.pending = r.timers.After(r.settle, r.settled)
}

func (r *RevealSequence) settled() {
	r.pending = nil
	if r.cancelled || r.ready {
		return
	}
	r.ready = true
	if r.events.OnReady != nil {
		r.events.OnReady(r.timers.Now())
	}
}

func (r *RevealSequence) State() RevealState {
	return r.state
}

// Index is the block being waited on; it equals Len once Done.
func (r *RevealSequence) Index() int {
	return r.next
}

// Remaining is the delay left in the Waiting state.
func (r *RevealSequence) Remaining() time.Duration {
	if r.state != RevealWaiting || !r.pending.Active() {
		return 0
	}
	if left := r.pending.Due() - r.timers.Now(); left > 0 {
		return left
	}
	return 0
}

func (r *RevealSequence) Len() int {
	return len(r.blocks)
}

func (r *RevealSequence) Revealed() int {
	return r.revealed
}

func (r *RevealSequence) IsRevealed(i int) bool {
	return i >= 0 && i < r.revealed
}

// Highlighted reports whether block i is revealed and flagged.
func (r *RevealSequence) Highlighted(i int) bool {
	return r.IsRevealed(i) && r.blocks[i].Highlight
}

// Ready is the one-shot signal raised after Done and the settle delay.
func (r *RevealSequence) Ready() bool {
	return r.ready
}

func (r *RevealSequence) Cancelled() bool {
	return r.cancelled
}
