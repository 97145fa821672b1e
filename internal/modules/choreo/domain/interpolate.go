package domain

import "math"

// ValueDomain restricts an interpolated value.
type ValueDomain int

const (
	// Unbounded values (translation, scale) are not clamped.
	Unbounded ValueDomain = iota
	// Unit values (opacity, color mix) are clamped to [0,1].
	Unit
	// Count values (reveal counts) are non-negative integers.
	Count
)

// ParamSpec describes one parameter track. From/To select a sub-range of the
// phase-local progress; both zero means the whole phase, so an empty range
// at 0 cannot be declared. From == To > 0 is a step at that point.
type ParamSpec struct {
	Name   string
	Phase  int
	From   float64
	To     float64
	Start  float64
	End    float64
	Ease   Easing
	Domain ValueDomain
}

// ParameterSet is the output of a single frame.
type ParameterSet map[string]float64

func (s ParameterSet) Get(name string, fallback float64) float64 {
	if v, ok := s[name]; ok {
		return v
	}
	return fallback
}

func (p ParamSpec) window() (float64, float64) {
	if p.From == 0 && p.To == 0 {
		return 0, 1
	}
	return Clamp01(p.From), Clamp01(p.To)
}

// Sub renormalizes local progress into the spec's sub-range.
func (p ParamSpec) Sub(local float64) float64 {
	from, to := p.window()
	local = Clamp01(local)
	if to <= from {
		if local >= to {
			return 1
		}
		return 0
	}
	return Clamp01((local - from) / (to - from))
}

// Value computes the spec's value for a phase state.
func (p ParamSpec) Value(state PhaseState) float64 {
	return p.At(state.LocalFor(p.Phase))
}

// At computes the spec's value for a local progress. The declared start and
// end values are returned exactly at the sub-range boundaries.
func (p ParamSpec) At(local float64) float64 {
	t := p.Sub(local)
	e := t
	switch {
	case t <= 0:
		e = 0
	case t >= 1:
		e = 1
	case p.Ease != nil:
		e = p.Ease(t)
	}
	return p.restrict(p.Start*(1-e) + p.End*e)
}

func (p ParamSpec) restrict(v float64) float64 {
	if math.IsNaN(v) {
		v = p.Start
	}
	switch p.Domain {
	case Unit:
		return Clamp01(v)
	case Count:
		if !(v > 0) {
			return 0
		}
		return math.Floor(v + 1e-9)
	default:
		return v
	}
}

// Interpolate evaluates every spec. When several specs share a name, the
// last one whose phase has started wins; before any has started the first
// spec's start value holds.
func Interpolate(state PhaseState, specs []ParamSpec) ParameterSet {
	out := make(ParameterSet, len(specs))
	for _, spec := range specs {
		if _, seen := out[spec.Name]; !seen {
			out[spec.Name] = spec.restrict(spec.Start)
		}
		if state.Started(spec.Phase) {
			out[spec.Name] = spec.Value(state)
		}
	}
	return out
}
