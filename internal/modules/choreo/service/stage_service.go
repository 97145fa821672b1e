package service

import (
	"context"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"gazette/internal/modules/choreo/domain"
	"gazette/internal/modules/choreo/dto"
	choreoout "gazette/internal/modules/choreo/port/out"
	"gazette/internal/platform/clock"
	"gazette/internal/platform/config"
	apperrors "gazette/internal/platform/errors"
	"gazette/internal/platform/id"
)

type section struct {
	id        string
	content   domain.SectionContent
	stage     *domain.Stage
	reveal    *domain.RevealSequence
	letters   *domain.LetterReveal
	trigger   trigger
	triggered bool
	last      domain.Paint
	painted   bool
}

type mount struct {
	id       string
	content  domain.Content
	origin   time.Time
	sched    *domain.Scheduler
	timers   *domain.TimerGroup
	doc      *domain.Document
	sections []*section
}

// StageService owns every mounted issue. All mounts share one observer; each
// mount gets its own surface, scheduler and timer group so unmounting one
// cancels only its own timers.
type StageService struct {
	mu       sync.Mutex
	clock    clock.Clock
	idGen    id.Generator
	source   choreoout.ContentSource
	position choreoout.PositionStore
	tuning   config.Tuning
	logger   hclog.Logger
	observer *domain.Observer
	mounts   map[string]*mount
}

// NewStageService wires the engine. position may be nil, in which case
// reading positions are neither restored nor saved.
func NewStageService(clock clock.Clock, idGen id.Generator, source choreoout.ContentSource, position choreoout.PositionStore, tuning config.Tuning, logger hclog.Logger) *StageService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &StageService{
		clock:    clock,
		idGen:    idGen,
		source:   source,
		position: position,
		tuning:   tuning,
		logger:   logger.Named("choreo"),
		observer: domain.NewObserver(),
		mounts:   map[string]*mount{},
	}
}

func (s *StageService) Tuning() config.Tuning {
	return s.tuning
}

func (s *StageService) Mount(ctx context.Context, input dto.MountInput) (dto.MountOutput, error) {
	content, err := s.resolve(ctx, input.IssueID)
	if err != nil {
		return dto.MountOutput{}, err
	}
	scrollY := input.ScrollY
	if input.Resume && s.position != nil {
		saved, found, loadErr := s.position.Load(ctx, content.IssueID)
		if loadErr != nil {
			return dto.MountOutput{}, fmt.Errorf("load position: %w", loadErr)
		}
		if found {
			scrollY = saved
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.build(s.idGen.New(), content)
	m.origin = s.clock.Now()
	s.observer.Attach(m.id)
	for _, sec := range m.sections {
		s.observer.Register(m.id, sec.stage)
	}
	if input.ViewportW > 0 && input.ViewportH > 0 {
		scrollY = clampScroll(scrollY, m.doc.MaxScroll(float64(input.ViewportW), float64(input.ViewportH)))
	} else {
		scrollY = math.Max(0, scrollY)
	}
	s.observer.Resize(m.id, float64(max(input.ViewportW, 0)), float64(max(input.ViewportH, 0)))
	s.observer.Scroll(m.id, scrollY)
	for _, sec := range m.sections {
		if sec.letters != nil {
			sec.letters.Start()
		}
	}
	m.sched.Advance(0)
	s.mounts[m.id] = m
	s.logger.Info("mounted issue", "mount", m.id, "issue", content.IssueID, "sections", len(m.sections))

	out := dto.MountOutput{
		MountID:       m.id,
		IssueID:       content.IssueID,
		Title:         content.Title,
		Subtitle:      content.Subtitle,
		ScrollY:       scrollY,
		FrameInterval: s.tuning.FrameInterval(),
	}
	for _, sec := range m.sections {
		out.Sections = append(out.Sections, sectionInfo(sec.content, sec.id))
	}
	return out, nil
}

func (s *StageService) Scroll(_ context.Context, input dto.ScrollInput) (dto.ScrollOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(input.MountID)
	if err != nil {
		return dto.ScrollOutput{}, err
	}
	y := input.ScrollY
	if snap, ok := s.observer.Snapshot(m.id); ok && snap.Sized() {
		y = clampScroll(y, m.doc.MaxScroll(snap.ViewportW, snap.ViewportH))
	} else {
		y = math.Max(0, y)
	}
	s.observer.Scroll(m.id, y)
	return dto.ScrollOutput{ScrollY: y}, nil
}

func (s *StageService) Resize(_ context.Context, input dto.ResizeInput) (dto.ResizeOutput, error) {
	if input.Width < 0 || input.Height < 0 {
		return dto.ResizeOutput{}, fmt.Errorf("%w: negative viewport %dx%d", apperrors.ErrInvalidInput, input.Width, input.Height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(input.MountID)
	if err != nil {
		return dto.ResizeOutput{}, err
	}
	vw, vh := float64(input.Width), float64(input.Height)
	s.observer.Resize(m.id, vw, vh)
	snap, _ := s.observer.Snapshot(m.id)
	maxScroll := m.doc.MaxScroll(vw, vh)
	y := clampScroll(snap.ScrollY, maxScroll)
	if y != snap.ScrollY {
		s.observer.Scroll(m.id, y)
	}
	return dto.ResizeOutput{DocumentHeight: m.doc.Height(vw, vh), MaxScroll: maxScroll, ScrollY: y}, nil
}

// Frame advances the mount's timers to now, then runs at most one scroll
// pass. Sections whose reveal is triggered by entry start on the first pass
// that sees them on screen. Frames without a pass repeat each section's last
// paint; only reveal state, glyphs and article counts move.
func (s *StageService) Frame(_ context.Context, input dto.FrameInput) (dto.FrameOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(input.MountID)
	if err != nil {
		return dto.FrameOutput{}, err
	}
	elapsed := input.Now.Sub(m.origin)
	if elapsed < m.sched.Now() {
		elapsed = m.sched.Now()
	}
	fired := m.sched.Advance(elapsed)
	if fired > 0 && m.holds() {
		s.observer.Invalidate(m.id)
	}

	paints := make([]domain.Paint, 0, len(m.sections))
	snap, ran := s.observer.Frame(m.id, func(p domain.Paint) { paints = append(paints, p) })
	if ran {
		started := false
		for i, p := range paints {
			sec := m.sections[i]
			if sec.trigger == triggerEntry && !sec.triggered && p.Geometry.Entered() {
				sec.triggered = true
				sec.reveal.Start()
				started = true
				s.logger.Debug("section entered", "mount", m.id, "section", sec.id, "at", elapsed)
			}
		}
		if started {
			fired += m.sched.Advance(elapsed)
			if m.holds() {
				s.observer.Invalidate(m.id)
			}
		}
	} else {
		snap, _ = s.observer.Snapshot(m.id)
	}

	out := dto.FrameOutput{
		MountID:        m.id,
		Elapsed:        elapsed,
		Recomputed:     ran,
		TimersFired:    fired,
		ScrollY:        snap.ScrollY,
		ViewportW:      snap.ViewportW,
		ViewportH:      snap.ViewportH,
		DocumentHeight: m.doc.Height(snap.ViewportW, snap.ViewportH),
		Sections:       make([]dto.SectionFrame, 0, len(m.sections)),
	}
	for i, sec := range m.sections {
		if ran && i < len(paints) {
			sec.last = paints[i]
			sec.painted = true
		}
		frame := dto.SectionFrame{ID: sec.id, Kind: string(sec.content.Kind), Reveal: revealFrame(sec.reveal), Letters: glyphFrames(sec.letters)}
		if sec.painted {
			fillPaint(&frame, sec.last)
		}
		if sec.content.Kind == domain.KindArticle && frame.Params != nil {
			frame.Params[dto.ParamRevealCount] = articleCount(frame, sec.reveal)
		}
		out.Sections = append(out.Sections, frame)
	}
	return out, nil
}

// Unmount cancels every pending timer of the mount and drops its surface.
// Unmounting an unknown or already unmounted id is a no-op.
// The reading position is saved after teardown; a failed save is returned
// but the mount is gone either way.
func (s *StageService) Unmount(ctx context.Context, input dto.UnmountInput) (dto.UnmountOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mounts[input.MountID]
	if !ok {
		return dto.UnmountOutput{MountID: input.MountID}, nil
	}
	cancelled := m.timers.Close()
	for _, sec := range m.sections {
		sec.reveal.Cancel()
		if sec.letters != nil {
			sec.letters.Cancel()
		}
	}
	snap, _ := s.observer.Snapshot(m.id)
	percent := 0.0
	if maxScroll := m.doc.MaxScroll(snap.ViewportW, snap.ViewportH); maxScroll > 0 {
		percent = math.Round(snap.ScrollY / maxScroll * 100)
	}
	m.doc.Detach()
	s.observer.Detach(m.id)
	delete(s.mounts, m.id)
	s.logger.Info("unmounted issue", "mount", m.id, "issue", m.content.IssueID, "cancelled_timers", cancelled)
	out := dto.UnmountOutput{
		MountID:         m.id,
		IssueID:         m.content.IssueID,
		CancelledTimers: cancelled,
		ScrollY:         snap.ScrollY,
		Percent:         percent,
	}
	if s.position != nil && snap.Sized() {
		if err := s.position.Save(ctx, m.content.IssueID, snap.ScrollY, percent); err != nil {
			s.logger.Warn("save position failed", "issue", m.content.IssueID, "error", err)
			return out, fmt.Errorf("save position: %w", err)
		}
	}
	return out, nil
}

// Simulate scrolls a private surface through the whole issue and records
// every section's progress and parameters at each step. No timers run, so
// gated sections stay held.
func (s *StageService) Simulate(ctx context.Context, input dto.SimulateInput) ([]dto.SimulateRow, error) {
	if input.Width <= 0 || input.Height <= 0 {
		return nil, fmt.Errorf("%w: viewport %dx%d", apperrors.ErrInvalidInput, input.Width, input.Height)
	}
	content, err := s.resolve(ctx, input.IssueID)
	if err != nil {
		return nil, err
	}
	vw, vh := float64(input.Width), float64(input.Height)
	step := input.Step
	if step <= 0 {
		step = math.Max(1, vh/4)
	}

	m := s.build("simulate", content)
	observer := domain.NewObserver()
	observer.Attach(m.id)
	for _, sec := range m.sections {
		observer.Register(m.id, sec.stage)
	}
	observer.Resize(m.id, vw, vh)
	maxScroll := m.doc.MaxScroll(vw, vh)

	rows := []dto.SimulateRow{}
	for y := 0.0; ; y += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if y > maxScroll {
			y = maxScroll
		}
		observer.Scroll(m.id, y)
		i := 0
		observer.Frame(m.id, func(p domain.Paint) {
			sec := m.sections[i]
			i++
			rows = append(rows, dto.SimulateRow{
				ScrollY:   y,
				SectionID: sec.id,
				Kind:      string(sec.content.Kind),
				Progress:  p.Progress,
				PhaseName: p.Phase.Name(),
				Local:     p.Phase.Local,
				Params:    p.Params,
			})
		})
		if y >= maxScroll {
			break
		}
	}
	m.timers.Close()
	return rows, nil
}

func (s *StageService) resolve(ctx context.Context, issueID string) (domain.Content, error) {
	if strings.TrimSpace(issueID) == "" {
		return domain.Content{}, fmt.Errorf("%w: issue id is required", apperrors.ErrInvalidInput)
	}
	content, err := s.source.Resolve(ctx, issueID)
	if err != nil {
		return domain.Content{}, fmt.Errorf("resolve issue %s: %w", issueID, err)
	}
	if len(content.Sections) == 0 {
		return domain.Content{}, fmt.Errorf("%w: %s", apperrors.ErrEmptyIssue, issueID)
	}
	for _, sc := range content.Sections {
		if err := sc.Kind.Validate(); err != nil {
			return domain.Content{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}
	return content, nil
}

func (s *StageService) lookup(mountID string) (*mount, error) {
	m, ok := s.mounts[mountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownMount, mountID)
	}
	return m, nil
}

// build lays out the document and wires every section's stage, reveal and
// letters. Nothing is started.
func (s *StageService) build(mountID string, content domain.Content) *mount {
	sched := domain.NewScheduler()
	m := &mount{
		id:      mountID,
		content: content,
		sched:   sched,
		timers:  domain.NewTimerGroup(sched),
		doc:     domain.NewDocument(),
	}
	for i, sc := range content.Sections {
		p, _ := presetFor(sc.Kind)
		sec := &section{id: sectionID(sc, i), content: sc, trigger: p.trigger}
		region := m.doc.Append(p.length(sc, s.tuning))
		sec.stage = domain.NewStage(sec.id, region, p.policy(s.tuning), p.planner(sc, s.tuning))
		sec.reveal = domain.NewRevealSequence(m.timers, revealBlocks(sc), s.tuning.SettleDelay(), s.revealEvents(m, sec))
		if sc.Hold {
			reveal := sec.reveal
			sec.stage.Hold = func() bool { return reveal.State() != domain.RevealDone }
		}
		if p.letters {
			sec.letters = s.newLetters(m, sec)
		}
		m.sections = append(m.sections, sec)
	}
	return m
}

func (s *StageService) newLetters(m *mount, sec *section) *domain.LetterReveal {
	t := s.tuning
	seed := domain.SeedFor(strconv.FormatUint(t.Seed, 10), m.content.IssueID, sec.id)
	cfg := domain.LetterConfig{
		Stagger:         t.LetterStagger(),
		InitialDelay:    t.LetterDelay(),
		ScatterFrom:     scatterFrom(sec.content.Title, sec.content.ScatterWord),
		ScatterDelay:    t.ScatterDelay(),
		ScatterDuration: t.ScatterDuration(),
		Spread:          t.ScatterSpread,
	}
	events := domain.LetterEvents{
		OnDone: func(time.Duration) {
			if sec.trigger == triggerLetters && !sec.triggered {
				sec.triggered = true
				sec.reveal.Start()
			}
		},
	}
	return domain.NewLetterReveal(m.timers, sec.content.Title, domain.NewRand(seed), cfg, events)
}

func (s *StageService) revealEvents(m *mount, sec *section) domain.RevealEvents {
	return domain.RevealEvents{
		OnReveal: func(index int, at time.Duration) {
			s.logger.Trace("block revealed", "mount", m.id, "section", sec.id, "block", index, "at", at)
		},
		OnReady: func(at time.Duration) {
			s.logger.Debug("section ready", "mount", m.id, "section", sec.id, "at", at)
		},
	}
}

// holds reports whether any section's progress is gated on its reveal.
func (m *mount) holds() bool {
	for _, sec := range m.sections {
		if sec.stage.Hold != nil {
			return true
		}
	}
	return false
}

func revealBlocks(sc domain.SectionContent) []domain.RevealBlock {
	blocks := make([]domain.RevealBlock, 0, len(sc.Blocks))
	for _, b := range sc.Blocks {
		blocks = append(blocks, domain.RevealBlock{Delay: b.Delay, Highlight: b.Emphasis})
	}
	return blocks
}

// articleCount is the number of article blocks to paint. Scrolling drives
// it, but a block never shows before its timed reveal. While the section is
// held, the timed reveal alone decides.
func articleCount(frame dto.SectionFrame, r *domain.RevealSequence) float64 {
	revealed := float64(r.Revealed())
	if frame.Held {
		return revealed
	}
	return math.Min(frame.Params[dto.ParamRevealCount], revealed)
}

func revealFrame(r *domain.RevealSequence) dto.RevealFrame {
	return dto.RevealFrame{
		State:     r.State().String(),
		Index:     r.Index(),
		Revealed:  r.Revealed(),
		Total:     r.Len(),
		Ready:     r.Ready(),
		Remaining: r.Remaining(),
	}
}

func glyphFrames(l *domain.LetterReveal) []dto.GlyphFrame {
	if l == nil {
		return nil
	}
	glyphs := l.Glyphs()
	out := make([]dto.GlyphFrame, len(glyphs))
	for i, g := range glyphs {
		out[i] = dto.GlyphFrame{Rune: g.Rune, Visible: g.Visible, DX: g.DX, DY: g.DY}
	}
	return out
}

func fillPaint(frame *dto.SectionFrame, p domain.Paint) {
	frame.Top = p.Geometry.Top
	frame.Height = p.Geometry.Height
	frame.Measured = p.Geometry.Measured
	frame.Progress = p.Progress
	frame.Phase = p.Phase.Index
	frame.PhaseName = p.Phase.Name()
	frame.Local = p.Phase.Local
	frame.Held = p.Held
	frame.Params = maps.Clone(p.Params)
}

func clampScroll(y, maxScroll float64) float64 {
	if math.IsNaN(y) || y < 0 {
		return 0
	}
	if y > maxScroll {
		return maxScroll
	}
	return y
}
