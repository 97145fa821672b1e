package service_test

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"gazette/internal/modules/choreo/domain"
	"gazette/internal/modules/choreo/dto"
	"gazette/internal/modules/choreo/service"
	"gazette/internal/platform/clock"
	"gazette/internal/platform/config"
	apperrors "gazette/internal/platform/errors"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeSource map[string]domain.Content

func (f fakeSource) Resolve(_ context.Context, issueID string) (domain.Content, error) {
	content, ok := f[issueID]
	if !ok {
		return domain.Content{}, apperrors.ErrNotFound
	}
	return content, nil
}

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return "m" + strconv.Itoa(s.n)
}

type fakePositions struct {
	saved   map[string]float64
	percent float64
}

func (f *fakePositions) Load(_ context.Context, issueID string) (float64, bool, error) {
	y, ok := f.saved[issueID]
	return y, ok, nil
}

func (f *fakePositions) Save(_ context.Context, issueID string, scrollY, percent float64) error {
	f.saved[issueID] = scrollY
	f.percent = percent
	return nil
}

func newService(source fakeSource, positions *fakePositions) *service.StageService {
	if positions == nil {
		return service.NewStageService(clock.Fixed{At: t0}, &seqIDs{}, source, nil, config.DefaultTuning(), nil)
	}
	return service.NewStageService(clock.Fixed{At: t0}, &seqIDs{}, source, positions, config.DefaultTuning(), nil)
}

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func blocks(delaysMS ...int) []domain.Block {
	out := make([]domain.Block, len(delaysMS))
	for i, d := range delaysMS {
		out[i] = domain.Block{Text: "block " + strconv.Itoa(i), Delay: time.Duration(d) * time.Millisecond}
	}
	return out
}

func frame(t *testing.T, svc *service.StageService, mountID string, ms int) dto.FrameOutput {
	t.Helper()
	out, err := svc.Frame(context.Background(), dto.FrameInput{MountID: mountID, Now: at(ms)})
	if err != nil {
		t.Fatalf("frame at %dms: %v", ms, err)
	}
	return out
}

func TestMountRevealTimeline(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Title: "One", Sections: []domain.SectionContent{
		{ID: "lead", Kind: domain.KindLead, Blocks: blocks(0, 2000, 1500)},
	}}}, nil)
	mounted, err := svc.Mount(context.Background(), dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 24})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	cases := []struct {
		ms       int
		revealed int
		state    string
	}{
		{0, 1, "waiting"},
		{1999, 1, "waiting"},
		{2000, 2, "waiting"},
		{3499, 2, "waiting"},
		{3500, 3, "done"},
	}
	for _, tc := range cases {
		out := frame(t, svc, mounted.MountID, tc.ms)
		reveal := out.Sections[0].Reveal
		if reveal.Revealed != tc.revealed || reveal.State != tc.state {
			t.Fatalf("at %dms: expected %d revealed (%s), got %+v", tc.ms, tc.revealed, tc.state, reveal)
		}
	}
	if out := frame(t, svc, mounted.MountID, 4699); out.Sections[0].Reveal.Ready {
		t.Fatalf("ready should wait for the settle delay")
	}
	if out := frame(t, svc, mounted.MountID, 4700); !out.Sections[0].Reveal.Ready {
		t.Fatalf("ready should fire 1200ms after the last reveal")
	}
}

func TestHeroLettersGateBlockReveal(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "hero", Kind: domain.KindHero, Title: "LONGFORMS", Blocks: blocks(0)},
	}}}, nil)
	mounted, err := svc.Mount(context.Background(), dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 24})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	visible := func(out dto.FrameOutput) int {
		n := 0
		for _, g := range out.Sections[0].Letters {
			if g.Visible {
				n++
			}
		}
		return n
	}

	out := frame(t, svc, mounted.MountID, 679)
	if visible(out) != 8 || out.Sections[0].Reveal.State != "idle" {
		t.Fatalf("at 679ms expected 8 letters and an idle reveal, got %d %+v", visible(out), out.Sections[0].Reveal)
	}
	out = frame(t, svc, mounted.MountID, 680)
	if visible(out) != 9 {
		t.Fatalf("last letter should appear at 680ms, got %d", visible(out))
	}
	if out.Sections[0].Reveal.Revealed != 1 {
		t.Fatalf("block reveal should start once the letters are done: %+v", out.Sections[0].Reveal)
	}
}

func TestUnmountCancelsTimersAndIsIdempotent(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "lead", Kind: domain.KindLead, Blocks: blocks(0, 2000, 1500)},
	}}}, nil)
	ctx := context.Background()
	mounted, err := svc.Mount(ctx, dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 24})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	frame(t, svc, mounted.MountID, 100)

	out, err := svc.Unmount(ctx, dto.UnmountInput{MountID: mounted.MountID})
	if err != nil {
		t.Fatalf("unmount: %v", err)
	}
	if out.CancelledTimers != 1 {
		t.Fatalf("expected the pending reveal timer to be cancelled, got %d", out.CancelledTimers)
	}
	if _, err := svc.Frame(ctx, dto.FrameInput{MountID: mounted.MountID, Now: at(5000)}); !errors.Is(err, apperrors.ErrUnknownMount) {
		t.Fatalf("frames after unmount should fail with unknown mount, got %v", err)
	}
	again, err := svc.Unmount(ctx, dto.UnmountInput{MountID: mounted.MountID})
	if err != nil || again.CancelledTimers != 0 {
		t.Fatalf("second unmount should be a no-op: %+v %v", again, err)
	}
}

func TestHoldPinsProgressUntilRevealDone(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "lead", Kind: domain.KindLead},
		{ID: "terms", Kind: domain.KindTerms, Terms: []string{"a", "b"}, Blocks: blocks(0, 1000), Hold: true},
	}}}, nil)
	mounted, err := svc.Mount(context.Background(), dto.MountInput{IssueID: "i1", ViewportW: 10, ViewportH: 100, ScrollY: 150})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	out := frame(t, svc, mounted.MountID, 0)
	terms := out.Sections[1]
	if !terms.Held || terms.Progress != 0 {
		t.Fatalf("terms should be held while revealing: %+v", terms)
	}
	out = frame(t, svc, mounted.MountID, 500)
	if !out.Recomputed || !out.Sections[1].Held {
		t.Fatalf("held sections keep recomputing until released: %+v", out.Sections[1])
	}
	out = frame(t, svc, mounted.MountID, 1000)
	terms = out.Sections[1]
	if terms.Held || math.Abs(terms.Progress-0.2) > 1e-9 {
		t.Fatalf("terms should be released at 0.2 progress, got %+v", terms)
	}
	if terms.PhaseName != "converge" {
		t.Fatalf("expected converge phase, got %s", terms.PhaseName)
	}
}

func TestArticleBlocksWaitForTheirDelays(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "body", Kind: domain.KindArticle, Blocks: blocks(0, 5000)},
	}}}, nil)
	mounted, err := svc.Mount(context.Background(), dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 20, ScrollY: 10})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	cases := []struct {
		ms    int
		count float64
	}{
		{0, 1},
		{4999, 1},
		{5000, 2},
	}
	for _, tc := range cases {
		body := frame(t, svc, mounted.MountID, tc.ms).Sections[0]
		if body.Progress != 1 {
			t.Fatalf("at %dms: article should be fully scrolled in, got %v", tc.ms, body.Progress)
		}
		if got := body.Params[dto.ParamRevealCount]; got != tc.count {
			t.Fatalf("at %dms: expected %v blocks, got %v", tc.ms, tc.count, got)
		}
	}
}

func TestHeldArticleWaitsForReveal(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "body", Kind: domain.KindArticle, Blocks: blocks(0, 500, 500), Hold: true},
	}}}, nil)
	mounted, err := svc.Mount(context.Background(), dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 20})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	cases := []struct {
		ms    int
		count float64
		state string
	}{
		{0, 1, "waiting"},
		{16, 1, "waiting"},
		{499, 1, "waiting"},
		{500, 2, "waiting"},
		{999, 2, "waiting"},
	}
	for _, tc := range cases {
		body := frame(t, svc, mounted.MountID, tc.ms).Sections[0]
		if !body.Held || body.Progress != 0 {
			t.Fatalf("at %dms: article should stay held, got %+v", tc.ms, body)
		}
		if body.Params[dto.ParamRevealCount] != tc.count || body.Reveal.State != tc.state {
			t.Fatalf("at %dms: expected %v blocks (%s), got %v (%s)", tc.ms, tc.count, tc.state, body.Params[dto.ParamRevealCount], body.Reveal.State)
		}
	}
	// entry progress at offset 0 is 16/25; 0.64/0.8 of three blocks floors to 2
	body := frame(t, svc, mounted.MountID, 1000).Sections[0]
	if body.Held || body.Reveal.State != "done" || math.Abs(body.Progress-0.64) > 1e-9 {
		t.Fatalf("article should be released once every block is out, got %+v", body)
	}
	if body.Params[dto.ParamRevealCount] != 2 {
		t.Fatalf("released article follows scroll progress, got %v", body.Params[dto.ParamRevealCount])
	}
}

func TestFrameCoalescesNotifications(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "hero", Kind: domain.KindHero, Title: "A"},
		{ID: "body", Kind: domain.KindArticle, Blocks: blocks(0, 0, 0, 0)},
	}}}, nil)
	ctx := context.Background()
	mounted, err := svc.Mount(ctx, dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 20})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	frame(t, svc, mounted.MountID, 0)
	for _, y := range []float64{5, 20, 10} {
		if _, err := svc.Scroll(ctx, dto.ScrollInput{MountID: mounted.MountID, ScrollY: y}); err != nil {
			t.Fatalf("scroll: %v", err)
		}
	}
	out := frame(t, svc, mounted.MountID, 16)
	if !out.Recomputed || out.ScrollY != 10 {
		t.Fatalf("expected one pass at the latest offset, got %+v", out)
	}
	if out.Sections[0].Progress != 0.5 {
		t.Fatalf("hero spans 20 scrolled rows, at 10 it should read 0.5, got %v", out.Sections[0].Progress)
	}
	idle := frame(t, svc, mounted.MountID, 32)
	if idle.Recomputed {
		t.Fatalf("no input since the last frame should skip the pass: %+v", idle)
	}
	if idle.Sections[0].Progress != 0.5 || idle.Sections[0].Params == nil {
		t.Fatalf("a frame without a pass should repeat the last paint: %+v", idle.Sections[0])
	}

	clamped, err := svc.Scroll(ctx, dto.ScrollInput{MountID: mounted.MountID, ScrollY: 1e6})
	if err != nil {
		t.Fatalf("scroll: %v", err)
	}
	if clamped.ScrollY != 50 {
		t.Fatalf("scroll should clamp to the document end (70-20), got %v", clamped.ScrollY)
	}
}

func TestTrackMovesByOverflow(t *testing.T) {
	t.Parallel()
	cards := make([]domain.Card, 5)
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "track", Kind: domain.KindTrack, Cards: cards},
	}}}, nil)
	ctx := context.Background()
	mounted, err := svc.Mount(ctx, dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 20, ScrollY: 35})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	out := frame(t, svc, mounted.MountID, 0)
	track := out.Sections[0]
	if track.PhaseName != "track" {
		t.Fatalf("expected track phase, got %s", track.PhaseName)
	}
	if got := track.Params[dto.ParamTranslateX]; math.Abs(got+33) > 1e-9 {
		t.Fatalf("translateX should follow scroll one to one, got %v", got)
	}
	if track.Params[dto.ParamOpacity] != 1 {
		t.Fatalf("track should be opaque between entry and exit, got %v", track.Params[dto.ParamOpacity])
	}
	if out.DocumentHeight != 96 {
		t.Fatalf("expected document height 96, got %v", out.DocumentHeight)
	}

	resized, err := svc.Resize(ctx, dto.ResizeInput{MountID: mounted.MountID, Width: 200, Height: 20})
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if resized.MaxScroll != 8 || resized.ScrollY != 8 {
		t.Fatalf("no overflow leaves only entry and exit spans: %+v", resized)
	}
}

func TestMountResumesAndUnmountSavesPosition(t *testing.T) {
	t.Parallel()
	positions := &fakePositions{saved: map[string]float64{"i1": 30}}
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "body", Kind: domain.KindArticle, Blocks: blocks(0)},
	}}}, positions)
	ctx := context.Background()

	mounted, err := svc.Mount(ctx, dto.MountInput{IssueID: "i1", ViewportW: 80, ViewportH: 20, Resume: true})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if mounted.ScrollY != 10 {
		t.Fatalf("saved offset should clamp to the max scroll 10, got %v", mounted.ScrollY)
	}
	if _, err := svc.Scroll(ctx, dto.ScrollInput{MountID: mounted.MountID, ScrollY: 5}); err != nil {
		t.Fatalf("scroll: %v", err)
	}
	out, err := svc.Unmount(ctx, dto.UnmountInput{MountID: mounted.MountID})
	if err != nil {
		t.Fatalf("unmount: %v", err)
	}
	if positions.saved["i1"] != 5 || out.Percent != 50 || positions.percent != 50 {
		t.Fatalf("unexpected saved position: %+v %+v", positions, out)
	}
}

func TestMountErrors(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{
		"empty": {IssueID: "empty"},
		"bad":   {IssueID: "bad", Sections: []domain.SectionContent{{ID: "x", Kind: "carousel"}}},
	}, nil)
	ctx := context.Background()
	if _, err := svc.Mount(ctx, dto.MountInput{IssueID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Mount(ctx, dto.MountInput{IssueID: "empty"}); !errors.Is(err, apperrors.ErrEmptyIssue) {
		t.Fatalf("expected empty issue, got %v", err)
	}
	if _, err := svc.Mount(ctx, dto.MountInput{IssueID: "bad"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Mount(ctx, dto.MountInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for a blank id, got %v", err)
	}
	if _, err := svc.Scroll(ctx, dto.ScrollInput{MountID: "nope"}); !errors.Is(err, apperrors.ErrUnknownMount) {
		t.Fatalf("expected unknown mount, got %v", err)
	}
}

func TestSimulateWalksTheDocument(t *testing.T) {
	t.Parallel()
	svc := newService(fakeSource{"i1": {IssueID: "i1", Sections: []domain.SectionContent{
		{ID: "hero", Kind: domain.KindHero, Title: "Hi"},
		{ID: "lead", Kind: domain.KindLead, Blocks: blocks(0)},
	}}}, nil)
	rows, err := svc.Simulate(context.Background(), dto.SimulateInput{IssueID: "i1", Width: 40, Height: 10, Step: 7})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	// document 20+12, max scroll 22: offsets 0,7,14,21,22
	if len(rows) != 10 {
		t.Fatalf("expected 5 offsets x 2 sections, got %d rows", len(rows))
	}
	last := rows[len(rows)-2]
	if last.SectionID != "hero" || last.ScrollY != 22 || last.Progress != 1 {
		t.Fatalf("hero should finish at the document end: %+v", last)
	}
	if last.Params[dto.ParamOpacity] != 0 {
		t.Fatalf("hero should be faded out at the end, got %v", last.Params[dto.ParamOpacity])
	}
	if _, err := svc.Simulate(context.Background(), dto.SimulateInput{IssueID: "i1"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unsized simulate should fail, got %v", err)
	}
}
