package domain

import (
	"math"
	"math/rand/v2"
	"time"
)

// LetterConfig drives a per-glyph reveal. ScatterFrom is the rune index where
// the trailing sub-word starts; a negative value disables scatter.
type LetterConfig struct {
	Stagger         time.Duration
	InitialDelay    time.Duration
	ScatterFrom     int
	ScatterDelay    time.Duration
	ScatterDuration time.Duration
	Spread          float64
}

type LetterEvents struct {
	OnReveal  func(index int, at time.Duration)
	OnDone    func(at time.Duration)
	OnScatter func(at time.Duration)
}

// Glyph is the presentational state of one character.
type Glyph struct {
	Rune    rune
	Visible bool
	DX      float64
	DY      float64
}

// LetterReveal reveals characters in a shuffled order with a fixed stagger.
type LetterReveal struct {
	runes      []rune
	order      []int
	rank       []int
	visible    []bool
	dirs       [][2]float64
	cfg        LetterConfig
	timers     *TimerGroup
	pending    []*Timer
	events     LetterEvents
	shown      int
	started    bool
	done       bool
	scattering bool
	scatterAt  time.Duration
	cancelled  bool
}

func NewLetterReveal(timers *TimerGroup, text string, rng *rand.Rand, cfg LetterConfig, events LetterEvents) *LetterReveal {
	runes := []rune(text)
	order := Permutation(len(runes), rng)
	rank := make([]int, len(runes))
	for k, idx := range order {
		rank[idx] = k
	}
	dirs := make([][2]float64, len(runes))
	for i := range dirs {
		angle := rng.Float64() * 2 * math.Pi
		dist := 0.5 + rng.Float64()*0.5
		dirs[i] = [2]float64{math.Cos(angle) * dist, math.Sin(angle) * dist}
	}
	if cfg.ScatterFrom >= len(runes) {
		cfg.ScatterFrom = -1
	}
	return &LetterReveal{
		runes:   runes,
		order:   order,
		rank:    rank,
		visible: make([]bool, len(runes)),
		dirs:    dirs,
		cfg:     cfg,
		timers:  timers,
		events:  events,
	}
}

// Start schedules every reveal. Character order[k] appears at
// InitialDelay + k*Stagger.
func (l *LetterReveal) Start() {
	if l.started || l.cancelled {
		return
	}
	l.started = true
	if len(l.runes) == 0 {
		l.finish()
		return
	}
	l.pending = make([]*Timer, 0, len(l.order)+1)
	for k, idx := range l.order {
		l.pending = append(l.pending, l.timers.After(l.cfg.InitialDelay+time.Duration(k)*l.cfg.Stagger, func() { l.reveal(idx) }))
	}
	if l.cfg.ScatterFrom >= 0 {
		l.pending = append(l.pending, l.timers.After(l.ScatterStart(), l.beginScatter))
	}
}

// ScatterStart is the offset from Start at which the trailing sub-word
// begins to scatter: after its last glyph is revealed plus ScatterDelay.
func (l *LetterReveal) ScatterStart() time.Duration {
	if l.cfg.ScatterFrom < 0 {
		return 0
	}
	last := 0
	for i := l.cfg.ScatterFrom; i < len(l.runes); i++ {
		if l.rank[i] > last {
			last = l.rank[i]
		}
	}
	return l.cfg.InitialDelay + time.Duration(last)*l.cfg.Stagger + l.cfg.ScatterDelay
}

func (l *LetterReveal) reveal(idx int) {
	if l.cancelled || l.visible[idx] {
		return
	}
	l.visible[idx] = true
	l.shown++
	if l.events.OnReveal != nil {
		l.events.OnReveal(idx, l.timers.Now())
	}
	if l.shown == len(l.runes) {
		l.finish()
	}
}

func (l *LetterReveal) finish() {
	if l.done {
		return
	}
	l.done = true
	if l.events.OnDone != nil {
		l.events.OnDone(l.timers.Now())
	}
}

func (l *LetterReveal) beginScatter() {
	if l.cancelled {
		return
	}
	l.scattering = true
	l.scatterAt = l.timers.Now()
	if l.events.OnScatter != nil {
		l.events.OnScatter(l.scatterAt)
	}
}

// Cancel stops the reveal where it is and drops every timer it still has
// scheduled. It is idempotent.
func (l *LetterReveal) Cancel() {
	if l.cancelled {
		return
	}
	l.cancelled = true
	for _, t := range l.pending {
		t.Stop()
	}
	l.pending = nil
}

func (l *LetterReveal) Done() bool {
	return l.done
}

func (l *LetterReveal) Started() bool {
	return l.started
}

func (l *LetterReveal) Order() []int {
	out := make([]int, len(l.order))
	copy(out, l.order)
	return out
}

func (l *LetterReveal) Len() int {
	return len(l.runes)
}

func (l *LetterReveal) Shown() int {
	return l.shown
}

// ScatterProgress is 0 before scatter begins and reaches 1 after
// ScatterDuration.
func (l *LetterReveal) ScatterProgress() float64 {
	if !l.scattering {
		return 0
	}
	if l.cfg.ScatterDuration <= 0 {
		return 1
	}
	return Clamp01(float64(l.timers.Now()-l.scatterAt) / float64(l.cfg.ScatterDuration))
}

// Glyphs returns the current state of every character.
func (l *LetterReveal) Glyphs() []Glyph {
	out := make([]Glyph, len(l.runes))
	amount := OutCubic(l.ScatterProgress()) * l.cfg.Spread
	for i, r := range l.runes {
		g := Glyph{Rune: r, Visible: l.visible[i]}
		if l.scattering && l.cfg.ScatterFrom >= 0 && i >= l.cfg.ScatterFrom {
			g.DX = l.dirs[i][0] * amount
			g.DY = l.dirs[i][1] * amount
		}
		out[i] = g
	}
	return out
}
