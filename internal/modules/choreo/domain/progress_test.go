package domain_test

import (
	"math"
	"testing"

	"gazette/internal/modules/choreo/domain"
)

func TestDistanceProgressScenario(t *testing.T) {
	t.Parallel()
	g := domain.Geometry{Top: -600, Height: 2000, ViewportH: 800, ViewportW: 1200, Measured: true}
	if got := domain.Progress(g, domain.DistancePolicy()); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestProgressDegenerateAndUnmeasured(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		g      domain.Geometry
		policy domain.Policy
	}{
		{"unmeasured", domain.Unmeasured, domain.DistancePolicy()},
		{"shorter than viewport", domain.Geometry{Top: -100, Height: 500, ViewportH: 800, Measured: true}, domain.DistancePolicy()},
		{"equal to viewport", domain.Geometry{Top: -100, Height: 800, ViewportH: 800, Measured: true}, domain.DistancePolicy()},
		{"entry zero window", domain.Geometry{Top: 0, Height: 0, ViewportH: 0, Measured: true}, domain.DefaultEntryPolicy()},
		{"entry inverted window", domain.Geometry{Top: 10, Height: 100, ViewportH: 100, Measured: true}, domain.EntryPolicy(-1, 0.5)},
	}
	for _, tc := range cases {
		if got := domain.Progress(tc.g, tc.policy); got != 0 {
			t.Fatalf("%s: expected 0, got %v", tc.name, got)
		}
	}
}

func TestEntryProgressWindow(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultEntryPolicy()
	// entryStart = 0.8*1000 = 800, entryEnd = -0.3*500 = -150.
	at := func(top float64) float64 {
		return domain.Progress(domain.Geometry{Top: top, Height: 500, ViewportH: 1000, ViewportW: 800, Measured: true}, policy)
	}
	if got := at(900); got != 0 {
		t.Fatalf("below the window: expected 0, got %v", got)
	}
	if got := at(800); got != 0 {
		t.Fatalf("at window start: expected 0, got %v", got)
	}
	if got := at(-150); got != 1 {
		t.Fatalf("at window end: expected 1, got %v", got)
	}
	if got := at(325); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("mid window: expected 0.5, got %v", got)
	}
}

func TestProgressMonotonicInScroll(t *testing.T) {
	t.Parallel()
	doc := domain.NewDocument()
	doc.Append(domain.FixedViewports(1))
	region := doc.Append(domain.FixedViewports(2.5))
	for _, policy := range []domain.Policy{domain.DistancePolicy(), domain.DefaultEntryPolicy()} {
		prev := -1.0
		for y := -200.0; y <= 4000; y += 7 {
			g := domain.Measure(region, domain.Snapshot{ScrollY: y, ViewportW: 120, ViewportH: 800})
			p := domain.Progress(g, policy)
			if p < prev {
				t.Fatalf("%s: progress decreased at scroll %v: %v < %v", policy.Kind, y, p, prev)
			}
			prev = p
		}
		if prev != 1 {
			t.Fatalf("%s: expected progress to reach 1, got %v", policy.Kind, prev)
		}
	}
}

func FuzzProgressRange(f *testing.F) {
	f.Add(-600.0, 2000.0, 800.0, 0.8, -0.3)
	f.Add(0.0, 0.0, 0.0, 0.8, -0.3)
	f.Add(10.0, 100.0, 800.0, 0.0, 0.0)
	f.Add(math.Inf(-1), 1.0, 1.0, 1.0, 1.0)
	f.Fuzz(func(t *testing.T, top, height, vh, start, end float64) {
		g := domain.Geometry{Top: top, Height: height, ViewportH: vh, ViewportW: 100, Measured: true}
		for _, policy := range []domain.Policy{domain.DistancePolicy(), domain.EntryPolicy(start, end)} {
			p := domain.Progress(g, policy)
			if math.IsNaN(p) || p < 0 || p > 1 {
				t.Fatalf("progress out of range: %v for %+v %+v", p, g, policy)
			}
		}
	})
}

func TestMeasureUnsizedViewportIsUnmeasured(t *testing.T) {
	t.Parallel()
	doc := domain.NewDocument()
	region := doc.Append(domain.FixedViewports(1))
	if g := domain.Measure(region, domain.Snapshot{}); g.Measured {
		t.Fatalf("expected unmeasured geometry for zero viewport")
	}
	doc.Detach()
	if g := domain.Measure(region, domain.Snapshot{ViewportW: 80, ViewportH: 24}); g.Measured {
		t.Fatalf("expected unmeasured geometry after detach")
	}
}

func TestDocumentStacksSlots(t *testing.T) {
	t.Parallel()
	doc := domain.NewDocument()
	doc.Append(domain.FixedViewports(2))
	second := doc.Append(func(vw, _ float64) float64 { return vw })
	top, height, ok := second.Bounds(100, 30)
	if !ok || top != 60 || height != 100 {
		t.Fatalf("unexpected bounds: top=%v height=%v ok=%v", top, height, ok)
	}
	if got := doc.Height(100, 30); got != 160 {
		t.Fatalf("expected document height 160, got %v", got)
	}
	if got := doc.MaxScroll(100, 30); got != 130 {
		t.Fatalf("expected max scroll 130, got %v", got)
	}
	g := domain.Measure(second, domain.Snapshot{ScrollY: 70, ViewportW: 100, ViewportH: 30})
	if g.Top != -10 {
		t.Fatalf("expected top -10, got %v", g.Top)
	}
}
