package domain_test

import (
	"testing"

	"gazette/internal/modules/choreo/domain"
)

func TestFrameGateCoalesces(t *testing.T) {
	t.Parallel()
	var gate domain.FrameGate
	passes := 0
	for i := 0; i < 50; i++ {
		gate.Notify()
	}
	if !gate.Flush(func() { passes++ }) {
		t.Fatalf("expected a pass")
	}
	if gate.Flush(func() { passes++ }) {
		t.Fatalf("second flush without notifications must not run")
	}
	if passes != 1 {
		t.Fatalf("expected exactly one pass, got %d", passes)
	}
}

func TestObserverDispatchesOneSnapshotPerFrame(t *testing.T) {
	t.Parallel()
	doc := domain.NewDocument()
	first := domain.NewStage("first", doc.Append(domain.FixedViewports(2)), domain.DistancePolicy(), nil)
	second := domain.NewStage("second", doc.Append(domain.FixedViewports(2)), domain.DistancePolicy(), nil)

	o := domain.NewObserver()
	o.Attach("doc")
	o.Register("doc", first)
	o.Register("doc", second)
	o.Resize("doc", 80, 100)
	for y := 0.0; y < 60; y += 5 {
		o.Scroll("doc", y)
	}

	var paints []domain.Paint
	snap, ran := o.Frame("doc", func(p domain.Paint) { paints = append(paints, p) })
	if !ran {
		t.Fatalf("expected a pass")
	}
	if snap.ScrollY != 55 || snap.Frame != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(paints) != 2 || paints[0].StageID != "first" || paints[1].StageID != "second" {
		t.Fatalf("unexpected dispatch: %+v", paints)
	}
	if paints[0].Progress != 0.55 {
		t.Fatalf("expected 0.55, got %v", paints[0].Progress)
	}
	if paints[1].Geometry.Top != 145 {
		t.Fatalf("second region should be measured from the same snapshot, top=%v", paints[1].Geometry.Top)
	}
	if _, ran := o.Frame("doc", nil); ran {
		t.Fatalf("no notifications since the last frame, pass must be skipped")
	}
	o.Invalidate("doc")
	if _, ran := o.Frame("doc", nil); !ran {
		t.Fatalf("invalidate should request a pass")
	}
}

func TestObserverSurfacesAreIndependent(t *testing.T) {
	t.Parallel()
	o := domain.NewObserver()
	o.Attach("a")
	o.Attach("b")
	o.Frame("a", nil)
	o.Frame("b", nil)
	o.Scroll("a", 10)
	if _, ran := o.Frame("b", nil); ran {
		t.Fatalf("scrolling surface a must not dirty surface b")
	}
	o.Detach("a")
	if o.Scroll("a", 20) {
		t.Fatalf("detached surface should ignore scroll")
	}
	if o.Len() != 1 {
		t.Fatalf("expected one surface, got %d", o.Len())
	}
}
