package domain

// Plan is the layout-dependent part of a stage: its phase table and the
// parameter tracks that may depend on measured sizes.
type Plan struct {
	Table  PhaseTable
	Params []ParamSpec
}

// Planner rebuilds a plan from a measurement.
type Planner func(g Geometry) Plan

// StaticPlan ignores the measurement.
func StaticPlan(table PhaseTable, params []ParamSpec) Planner {
	return func(Geometry) Plan { return Plan{Table: table, Params: params} }
}

type planKey struct {
	height    float64
	viewportW float64
	viewportH float64
	measured  bool
}

// Stage wires one tracked region through progress, phases and parameters.
type Stage struct {
	ID     string
	Region Region
	Policy Policy
	// Hold pins progress to 0 while it returns true.
	Hold func() bool

	planner Planner
	plan    Plan
	key     planKey
	hasPlan bool
}

func NewStage(id string, region Region, policy Policy, planner Planner) *Stage {
	if planner == nil {
		planner = StaticPlan(FullRange(), nil)
	}
	return &Stage{ID: id, Region: region, Policy: policy, planner: planner}
}

// Paint is what a stage hands to the rendering surface for one frame.
type Paint struct {
	StageID  string
	Geometry Geometry
	Progress float64
	Phase    PhaseState
	Params   ParameterSet
	Held     bool
}

// PlanFor returns the plan for g, rebuilding it whenever the measured sizes
// change. Scrolling alone does not invalidate it.
func (s *Stage) PlanFor(g Geometry) Plan {
	key := planKey{height: g.Height, viewportW: g.ViewportW, viewportH: g.ViewportH, measured: g.Measured}
	if !s.hasPlan || key != s.key {
		s.plan = s.planner(g)
		if s.plan.Table.Len() == 0 {
			s.plan.Table = FullRange()
		}
		s.key = key
		s.hasPlan = true
	}
	return s.plan
}

// Compute runs measure, progress, phase lookup and interpolation in order on
// one snapshot.
func (s *Stage) Compute(snap Snapshot) Paint {
	g := Measure(s.Region, snap)
	progress := Progress(g, s.Policy)
	held := false
	if s.Hold != nil && s.Hold() {
		progress = 0
		held = true
	}
	plan := s.PlanFor(g)
	state := plan.Table.Locate(progress)
	return Paint{
		StageID:  s.ID,
		Geometry: g,
		Progress: progress,
		Phase:    state,
		Params:   Interpolate(state, plan.Params),
		Held:     held,
	}
}
