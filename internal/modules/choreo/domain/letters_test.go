package domain_test

import (
	"testing"
	"time"

	"gazette/internal/modules/choreo/domain"
)

func TestLetterRevealLastGlyphTiming(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	var times []time.Duration
	var doneAt time.Duration = -1
	letters := domain.NewLetterReveal(domain.NewTimerGroup(s), "LONGFORMS", domain.NewRand(7), domain.LetterConfig{
		Stagger:      60 * time.Millisecond,
		InitialDelay: 200 * time.Millisecond,
		ScatterFrom:  -1,
	}, domain.LetterEvents{
		OnReveal: func(_ int, at time.Duration) { times = append(times, at) },
		OnDone:   func(at time.Duration) { doneAt = at },
	})
	letters.Start()
	s.Advance(679 * time.Millisecond)
	if letters.Done() {
		t.Fatalf("reveal finished early")
	}
	s.Advance(time.Second)
	if len(times) != 9 {
		t.Fatalf("expected 9 reveals, got %d", len(times))
	}
	if times[0] != 200*time.Millisecond || times[8] != 680*time.Millisecond || doneAt != 680*time.Millisecond {
		t.Fatalf("unexpected timing: first=%v last=%v done=%v", times[0], times[8], doneAt)
	}
	for _, g := range letters.Glyphs() {
		if !g.Visible {
			t.Fatalf("glyph %q not visible after the pass", g.Rune)
		}
	}
}

func TestLetterRevealFollowsPermutation(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	var got []int
	letters := domain.NewLetterReveal(domain.NewTimerGroup(s), "gazette", domain.NewRand(42), domain.LetterConfig{Stagger: 10 * time.Millisecond, ScatterFrom: -1}, domain.LetterEvents{
		OnReveal: func(i int, _ time.Duration) { got = append(got, i) },
	})
	letters.Start()
	s.Advance(time.Second)
	order := letters.Order()
	if len(got) != len(order) {
		t.Fatalf("expected %d reveals, got %d", len(order), len(got))
	}
	for k := range order {
		if got[k] != order[k] {
			t.Fatalf("reveal %d was %d, want %d", k, got[k], order[k])
		}
	}
}

func TestLetterScatterStartsAfterSubwordPass(t *testing.T) {
	t.Parallel()
	for seed := uint64(1); seed <= 20; seed++ {
		s := domain.NewScheduler()
		revealedAt := map[int]time.Duration{}
		var scatterAt time.Duration = -1
		letters := domain.NewLetterReveal(domain.NewTimerGroup(s), "SLOWREAD", domain.NewRand(seed), domain.LetterConfig{
			Stagger:         50 * time.Millisecond,
			InitialDelay:    100 * time.Millisecond,
			ScatterFrom:     4,
			ScatterDuration: 300 * time.Millisecond,
			Spread:          5,
		}, domain.LetterEvents{
			OnReveal:  func(i int, at time.Duration) { revealedAt[i] = at },
			OnScatter: func(at time.Duration) { scatterAt = at },
		})
		letters.Start()
		s.Advance(5 * time.Second)
		if scatterAt < 0 {
			t.Fatalf("seed %d: scatter never started", seed)
		}
		for i := 4; i < 8; i++ {
			if revealedAt[i] > scatterAt {
				t.Fatalf("seed %d: glyph %d revealed at %v after scatter began at %v", seed, i, revealedAt[i], scatterAt)
			}
		}
		glyphs := letters.Glyphs()
		for i := 0; i < 4; i++ {
			if glyphs[i].DX != 0 || glyphs[i].DY != 0 {
				t.Fatalf("seed %d: glyph %d outside the sub-word moved", seed, i)
			}
		}
	}
}

func TestLetterRevealEmptyTextIsDone(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	letters := domain.NewLetterReveal(domain.NewTimerGroup(s), "", domain.NewRand(1), domain.LetterConfig{ScatterFrom: 0}, domain.LetterEvents{})
	letters.Start()
	if !letters.Done() || s.Pending() != 0 {
		t.Fatalf("empty text should finish without timers")
	}
}

func TestLetterRevealCancelDropsScheduledTimers(t *testing.T) {
	t.Parallel()
	s := domain.NewScheduler()
	g := domain.NewTimerGroup(s)
	revealed := 0
	scattered := false
	letters := domain.NewLetterReveal(g, "HEADLINE", domain.NewRand(3), domain.LetterConfig{
		Stagger:         40 * time.Millisecond,
		InitialDelay:    100 * time.Millisecond,
		ScatterFrom:     4,
		ScatterDuration: 200 * time.Millisecond,
	}, domain.LetterEvents{
		OnReveal:  func(int, time.Duration) { revealed++ },
		OnScatter: func(time.Duration) { scattered = true },
	})
	letters.Start()
	if s.Pending() != 9 {
		t.Fatalf("expected 8 glyph timers plus scatter, got %d", s.Pending())
	}
	s.Advance(140 * time.Millisecond)
	shown := revealed
	letters.Cancel()
	letters.Cancel()
	if s.Pending() != 0 || g.Len() != 0 {
		t.Fatalf("cancel left timers behind: pending=%d group=%d", s.Pending(), g.Len())
	}
	if n := s.Advance(10 * time.Second); n != 0 {
		t.Fatalf("%d timers fired after cancel", n)
	}
	if revealed != shown || scattered || letters.Done() {
		t.Fatalf("reveal moved after cancel: revealed=%d scattered=%v", revealed, scattered)
	}
}
