package domain

import "math"

const (
	DefaultEntryStart = 0.8
	DefaultEntryEnd   = -0.3
)

type PolicyKind int

const (
	// PolicyDistance maps the scroll distance travelled inside the region.
	PolicyDistance PolicyKind = iota
	// PolicyEntry maps the region's passage through an entry window.
	PolicyEntry
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyDistance:
		return "distance"
	case PolicyEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Policy selects how a geometry maps to progress. EntryStart is a fraction of
// the viewport height, EntryEnd a fraction of the region's own height.
type Policy struct {
	Kind       PolicyKind
	EntryStart float64
	EntryEnd   float64
}

func DistancePolicy() Policy {
	return Policy{Kind: PolicyDistance}
}

func EntryPolicy(start, end float64) Policy {
	return Policy{Kind: PolicyEntry, EntryStart: start, EntryEnd: end}
}

func DefaultEntryPolicy() Policy {
	return EntryPolicy(DefaultEntryStart, DefaultEntryEnd)
}

// Progress maps a geometry to [0,1]. Unmeasured and degenerate geometries
// map to 0. The result is monotonic non-decreasing in the scroll offset.
func Progress(g Geometry, policy Policy) float64 {
	if !g.Measured {
		return 0
	}
	switch policy.Kind {
	case PolicyEntry:
		start := policy.EntryStart * g.ViewportH
		end := policy.EntryEnd * g.Height
		den := start - end
		if !(den > 0) {
			return 0
		}
		return Clamp01((start - g.Top) / den)
	default:
		span := g.Height - g.ViewportH
		if !(span > 0) {
			return 0
		}
		return Clamp01(-g.Top / span)
	}
}

// Clamp01 clamps v to [0,1] and maps NaN to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}
