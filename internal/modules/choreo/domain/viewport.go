package domain

import "math"

// Snapshot is the scroll and viewport state read once per frame. Every
// stage computed in the same frame sees the same snapshot.
type Snapshot struct {
	Frame     uint64
	ScrollY   float64
	ViewportW float64
	ViewportH float64
}

func (s Snapshot) Sized() bool {
	return s.ViewportW > 0 && s.ViewportH > 0
}

// Geometry is a tracked region measured against a snapshot. Top is relative
// to the viewport and goes negative once the region scrolls past it.
type Geometry struct {
	Top       float64
	Height    float64
	ViewportW float64
	ViewportH float64
	Measured  bool
}

// Unmeasured is returned for regions that are not attached to a surface.
var Unmeasured = Geometry{}

// Entered reports whether any part of the region overlaps the viewport.
func (g Geometry) Entered() bool {
	return g.Measured && g.Top < g.ViewportH && g.Top+g.Height > 0
}

// Region locates a tracked region inside the scrolling document.
type Region interface {
	Bounds(viewportW, viewportH float64) (top, height float64, ok bool)
}

// Measure reads the region's current geometry. It never caches.
func Measure(region Region, snap Snapshot) Geometry {
	if region == nil || !snap.Sized() {
		return Unmeasured
	}
	top, height, ok := region.Bounds(snap.ViewportW, snap.ViewportH)
	if !ok || !finite(top) || !finite(height) || height < 0 || !finite(snap.ScrollY) {
		return Unmeasured
	}
	return Geometry{
		Top:       top - snap.ScrollY,
		Height:    height,
		ViewportW: snap.ViewportW,
		ViewportH: snap.ViewportH,
		Measured:  true,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
