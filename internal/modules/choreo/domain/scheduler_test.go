package domain_test

import (
	"testing"
	"time"

	"gazette/internal/modules/choreo/domain"
)

func TestSchedulerFiresInDueOrder(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	var got []string
	s.After(30*time.Millisecond, func() { got = append(got, "c") })
	s.After(10*time.Millisecond, func() { got = append(got, "a") })
	s.After(10*time.Millisecond, func() { got = append(got, "b") })
	if n := s.Advance(5 * time.Millisecond); n != 0 {
		t.Fatalf("nothing should fire yet, fired %d", n)
	}
	if n := s.Advance(time.Second); n != 3 {
		t.Fatalf("expected 3 fired, got %d", n)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSchedulerChainedDelaysDoNotDrift(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	var at []time.Duration
	s.After(100*time.Millisecond, func() {
		at = append(at, s.Now())
		s.After(100*time.Millisecond, func() { at = append(at, s.Now()) })
	})
	s.Advance(117 * time.Millisecond)
	s.Advance(233 * time.Millisecond)
	if len(at) != 2 || at[0] != 100*time.Millisecond || at[1] != 200*time.Millisecond {
		t.Fatalf("unexpected fire times: %v", at)
	}
}

func TestTimerStopIsIdempotent(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	fired := false
	timer := s.After(time.Millisecond, func() { fired = true })
	if !timer.Stop() {
		t.Fatalf("first stop should cancel")
	}
	if timer.Stop() {
		t.Fatalf("second stop should be a no-op")
	}
	s.Advance(time.Second)
	if fired || s.Pending() != 0 {
		t.Fatalf("stopped timer must not fire")
	}
	var nilTimer *domain.Timer
	if nilTimer.Stop() {
		t.Fatalf("nil timer stop should be a no-op")
	}
}

func TestTimerGroupCloseCancelsEverything(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	g := domain.NewTimerGroup(s)
	fired := 0
	for i := 1; i <= 4; i++ {
		g.After(time.Duration(i)*time.Millisecond, func() { fired++ })
	}
	s.Advance(2 * time.Millisecond)
	if g.Len() != 2 {
		t.Fatalf("expected 2 outstanding timers, got %d", g.Len())
	}
	if n := g.Close(); n != 2 {
		t.Fatalf("expected 2 cancelled, got %d", n)
	}
	if n := g.Close(); n != 0 {
		t.Fatalf("second close should cancel nothing, got %d", n)
	}
	late := g.After(0, func() { fired += 100 })
	if late.Active() {
		t.Fatalf("timers requested after close must be inert")
	}
	s.Advance(time.Second)
	if fired != 2 {
		t.Fatalf("expected only the two early timers to fire, got %d", fired)
	}
	if s.Pending() != 0 {
		t.Fatalf("scheduler should be empty, got %d", s.Pending())
	}
}

func TestTimerGroupForgetsStoppedTimers(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	g := domain.NewTimerGroup(s)
	a := g.After(10*time.Millisecond, nil)
	g.After(20*time.Millisecond, nil)
	g.After(30*time.Millisecond, nil)
	if !a.Stop() {
		t.Fatalf("first stop should cancel")
	}
	if g.Len() != 2 || s.Pending() != 2 {
		t.Fatalf("stopped timer still owned: group=%d pending=%d", g.Len(), s.Pending())
	}
	s.Advance(20 * time.Millisecond)
	if g.Len() != 1 {
		t.Fatalf("fired timer still owned: group=%d", g.Len())
	}
	if n := g.Close(); n != 1 {
		t.Fatalf("expected 1 cancelled on close, got %d", n)
	}
}
