package domain

import (
	"fmt"
	"math"
)

// GlobalPhase binds a parameter to raw progress instead of a phase.
const GlobalPhase = -1

const boundaryEpsilon = 1e-9

type Phase struct {
	Name  string
	Start float64
	End   float64
}

func (p Phase) Width() float64 {
	return p.End - p.Start
}

// PhaseTable is an ordered, contiguous partition of [0,1]. Zero-width phases
// are kept for naming but are never active.
type PhaseTable struct {
	phases []Phase
}

// FullRange is the single-phase table used when nothing else is declared.
func FullRange() PhaseTable {
	return PhaseTable{phases: []Phase{{Name: "full", Start: 0, End: 1}}}
}

// NewPhaseTable validates the phases. An empty list yields FullRange.
// Boundaries within a tiny epsilon of their neighbour are snapped so the
// table stays exactly contiguous.
func NewPhaseTable(phases ...Phase) (PhaseTable, error) {
	if len(phases) == 0 {
		return FullRange(), nil
	}
	out := make([]Phase, len(phases))
	copy(out, phases)
	for i := range out {
		p := out[i]
		if !finite(p.Start) || !finite(p.End) {
			return PhaseTable{}, fmt.Errorf("phase %d (%s): non-finite boundary", i, p.Name)
		}
		if p.Start < -boundaryEpsilon || p.End > 1+boundaryEpsilon {
			return PhaseTable{}, fmt.Errorf("phase %d (%s): boundaries outside [0,1]", i, p.Name)
		}
		if p.End < p.Start {
			return PhaseTable{}, fmt.Errorf("phase %d (%s): end %v before start %v", i, p.Name, p.End, p.Start)
		}
		if i == 0 {
			if math.Abs(p.Start) > boundaryEpsilon {
				return PhaseTable{}, fmt.Errorf("first phase must start at 0, got %v", p.Start)
			}
			out[i].Start = 0
			continue
		}
		prev := out[i-1]
		if math.Abs(p.Start-prev.End) > boundaryEpsilon {
			return PhaseTable{}, fmt.Errorf("phase %d (%s): gap or overlap at %v", i, p.Name, p.Start)
		}
		out[i].Start = prev.End
		if out[i].End < out[i].Start {
			out[i].End = out[i].Start
		}
	}
	last := len(out) - 1
	if math.Abs(out[last].End-1) > boundaryEpsilon {
		return PhaseTable{}, fmt.Errorf("last phase must end at 1, got %v", out[last].End)
	}
	out[last].End = 1
	return PhaseTable{phases: out}, nil
}

// Span is a phase sized in layout units (cells, pixels or plain weights).
type Span struct {
	Name string
	Size float64
}

// TableFromSpans converts layout-sized spans into progress fractions. Spans
// with no size become zero-width phases. A table with no positive span
// falls back to FullRange.
func TableFromSpans(spans ...Span) PhaseTable {
	total := 0.0
	for _, s := range spans {
		if s.Size > 0 && finite(s.Size) {
			total += s.Size
		}
	}
	if total <= 0 {
		return FullRange()
	}
	phases := make([]Phase, len(spans))
	acc := 0.0
	cursor := 0.0
	for i, s := range spans {
		if s.Size > 0 && finite(s.Size) {
			acc += s.Size
		}
		end := acc / total
		if i == len(spans)-1 {
			end = 1
		}
		phases[i] = Phase{Name: s.Name, Start: cursor, End: end}
		cursor = end
	}
	return PhaseTable{phases: phases}
}

func (t PhaseTable) Len() int {
	return len(t.phases)
}

func (t PhaseTable) Phase(i int) (Phase, bool) {
	if i < 0 || i >= len(t.phases) {
		return Phase{}, false
	}
	return t.phases[i], true
}

func (t PhaseTable) Phases() []Phase {
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// Index returns the position of the named phase, or -1.
func (t PhaseTable) Index(name string) int {
	for i, p := range t.phases {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (t PhaseTable) lastActive() int {
	for i := len(t.phases) - 1; i >= 0; i-- {
		if t.phases[i].Width() > 0 {
			return i
		}
	}
	return -1
}

// Locate maps progress to the active phase. Intervals are half-open, the
// last non-empty phase also owns 1. At a shared boundary the later phase is
// active with local progress 0.
func (t PhaseTable) Locate(progress float64) PhaseState {
	if len(t.phases) == 0 {
		t = FullRange()
	}
	p := Clamp01(progress)
	last := t.lastActive()
	for i, ph := range t.phases {
		if ph.Width() <= 0 {
			continue
		}
		if p >= ph.Start && (p < ph.End || i == last) {
			return PhaseState{Index: i, Local: localIn(ph, p), Progress: p, table: t}
		}
	}
	return PhaseState{Index: last, Local: 1, Progress: p, table: t}
}

func localIn(ph Phase, p float64) float64 {
	if p <= ph.Start {
		return 0
	}
	if p >= ph.End {
		return 1
	}
	return Clamp01((p - ph.Start) / ph.Width())
}

// PhaseState is the result of locating progress in a table.
type PhaseState struct {
	Index    int
	Local    float64
	Progress float64
	table    PhaseTable
}

func (s PhaseState) Name() string {
	if ph, ok := s.table.Phase(s.Index); ok {
		return ph.Name
	}
	return ""
}

// LocalFor returns the local progress of any phase in the same table:
// 1 for phases already passed, 0 for phases not reached yet.
func (s PhaseState) LocalFor(i int) float64 {
	if i == GlobalPhase {
		return s.Progress
	}
	if i == s.Index {
		return s.Local
	}
	ph, ok := s.table.Phase(i)
	if !ok {
		return 0
	}
	if i < s.Index {
		return 1
	}
	if ph.Width() <= 0 && s.Progress >= ph.End {
		return 1
	}
	return 0
}

// Started reports whether phase i is active or already passed.
func (s PhaseState) Started(i int) bool {
	if i == GlobalPhase {
		return true
	}
	if _, ok := s.table.Phase(i); !ok {
		return false
	}
	return i <= s.Index || s.LocalFor(i) > 0
}
