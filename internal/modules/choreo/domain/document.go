package domain

// LengthFunc returns a slot's height for the given viewport size.
type LengthFunc func(viewportW, viewportH float64) float64

// Document stacks slots vertically. Slot heights depend on the viewport,
// so offsets are recomputed on every measurement.
type Document struct {
	lengths  []LengthFunc
	detached bool
}

func NewDocument() *Document {
	return &Document{}
}

// Append adds a slot below the existing ones and returns its region.
func (d *Document) Append(length LengthFunc) Region {
	d.lengths = append(d.lengths, length)
	return slot{doc: d, index: len(d.lengths) - 1}
}

// FixedViewports returns a LengthFunc of n viewport heights.
func FixedViewports(n float64) LengthFunc {
	return func(_, vh float64) float64 { return n * vh }
}

func (d *Document) Len() int {
	return len(d.lengths)
}

// Height is the total scrollable height of the document.
func (d *Document) Height(vw, vh float64) float64 {
	total := 0.0
	for _, length := range d.lengths {
		total += lengthOf(length, vw, vh)
	}
	return total
}

// MaxScroll is the largest meaningful scroll offset.
func (d *Document) MaxScroll(vw, vh float64) float64 {
	if m := d.Height(vw, vh) - vh; m > 0 {
		return m
	}
	return 0
}

// Detach makes every slot report as unmeasured.
func (d *Document) Detach() {
	d.detached = true
}

func (d *Document) bounds(index int, vw, vh float64) (float64, float64, bool) {
	if d.detached || index < 0 || index >= len(d.lengths) {
		return 0, 0, false
	}
	top := 0.0
	for i := 0; i < index; i++ {
		top += lengthOf(d.lengths[i], vw, vh)
	}
	return top, lengthOf(d.lengths[index], vw, vh), true
}

func lengthOf(length LengthFunc, vw, vh float64) float64 {
	if length == nil {
		return 0
	}
	v := length(vw, vh)
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

type slot struct {
	doc   *Document
	index int
}

func (s slot) Bounds(vw, vh float64) (float64, float64, bool) {
	return s.doc.bounds(s.index, vw, vh)
}
