package domain

// FrameGate coalesces any number of notifications into at most one pass per
// frame.
type FrameGate struct {
	pending bool
}

func (g *FrameGate) Notify() {
	g.pending = true
}

func (g *FrameGate) Pending() bool {
	return g.pending
}

// Flush runs pass if a notification arrived since the last flush.
func (g *FrameGate) Flush(pass func()) bool {
	if !g.pending {
		return false
	}
	g.pending = false
	if pass != nil {
		pass()
	}
	return true
}

type surface struct {
	gate    FrameGate
	scrollY float64
	width   float64
	height  float64
	frames  uint64
	stages  []*Stage
}

// Observer is the single scroll/resize listener. Each surface (a mounted
// document) keeps its own scroll offset and registered stages.
type Observer struct {
	surfaces map[string]*surface
}

func NewObserver() *Observer {
	return &Observer{surfaces: map[string]*surface{}}
}

// Attach creates a surface. The first frame after attaching always runs.
func (o *Observer) Attach(id string) {
	if _, ok := o.surfaces[id]; ok {
		return
	}
	s := &surface{}
	s.gate.Notify()
	o.surfaces[id] = s
}

func (o *Observer) Detach(id string) {
	delete(o.surfaces, id)
}

func (o *Observer) Attached(id string) bool {
	_, ok := o.surfaces[id]
	return ok
}

func (o *Observer) Len() int {
	return len(o.surfaces)
}

// Register adds a stage to a surface in dispatch order.
func (o *Observer) Register(id string, stage *Stage) bool {
	s, ok := o.surfaces[id]
	if !ok || stage == nil {
		return false
	}
	s.stages = append(s.stages, stage)
	s.gate.Notify()
	return true
}

func (o *Observer) Scroll(id string, y float64) bool {
	s, ok := o.surfaces[id]
	if !ok {
		return false
	}
	if !finite(y) {
		y = 0
	}
	s.scrollY = y
	s.gate.Notify()
	return true
}

func (o *Observer) Resize(id string, w, h float64) bool {
	s, ok := o.surfaces[id]
	if !ok {
		return false
	}
	s.width, s.height = w, h
	s.gate.Notify()
	return true
}

// Invalidate requests a pass without a scroll or resize, e.g. after a gate
// opened.
func (o *Observer) Invalidate(id string) {
	if s, ok := o.surfaces[id]; ok {
		s.gate.Notify()
	}
}

// Snapshot returns the surface's current inputs without running a pass.
func (o *Observer) Snapshot(id string) (Snapshot, bool) {
	s, ok := o.surfaces[id]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{Frame: s.frames, ScrollY: s.scrollY, ViewportW: s.width, ViewportH: s.height}, true
}

// Frame runs at most one pass for the surface: one snapshot is taken and
// every registered stage is computed against it, in registration order.
func (o *Observer) Frame(id string, dispatch func(Paint)) (Snapshot, bool) {
	s, ok := o.surfaces[id]
	if !ok {
		return Snapshot{}, false
	}
	var snap Snapshot
	ran := s.gate.Flush(func() {
		s.frames++
		snap = Snapshot{Frame: s.frames, ScrollY: s.scrollY, ViewportW: s.width, ViewportH: s.height}
		for _, stage := range s.stages {
			paint := stage.Compute(snap)
			if dispatch != nil {
				dispatch(paint)
			}
		}
	})
	return snap, ran
}
