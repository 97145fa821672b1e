package read

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	choreodto "gazette/internal/modules/choreo/dto"
)

type fakePort struct {
	frames    int
	frameErr  error
	scrolls   []float64
	unmounted []string
}

func (p *fakePort) Mount(_ context.Context, issueID string, _, _ int, _ bool) (choreodto.MountOutput, error) {
	return choreodto.MountOutput{MountID: "m-1", IssueID: issueID, Title: "Issue", FrameInterval: time.Millisecond}, nil
}

func (p *fakePort) Scroll(_ context.Context, _ string, y float64) (choreodto.ScrollOutput, error) {
	p.scrolls = append(p.scrolls, y)
	return choreodto.ScrollOutput{ScrollY: y}, nil
}

func (p *fakePort) Resize(_ context.Context, _ string, _, _ int) (choreodto.ResizeOutput, error) {
	return choreodto.ResizeOutput{DocumentHeight: 100, MaxScroll: 88}, nil
}

func (p *fakePort) Frame(_ context.Context, id string, _ time.Time) (choreodto.FrameOutput, error) {
	p.frames++
	if p.frameErr != nil {
		return choreodto.FrameOutput{}, p.frameErr
	}
	return choreodto.FrameOutput{MountID: id, ScrollY: 3, ViewportW: 40, ViewportH: 12}, nil
}

func (p *fakePort) Unmount(_ context.Context, id string) (choreodto.UnmountOutput, error) {
	p.unmounted = append(p.unmounted, id)
	return choreodto.UnmountOutput{MountID: id}, nil
}

func mounted(t *testing.T, port *fakePort) Model {
	t.Helper()
	m := New(port, nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 15})
	_ = m.Open("i1", false)
	out, err := port.Mount(context.Background(), "i1", 40, 12, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	m, _ = m.Update(MountedMsg{Out: out, gen: m.gen})
	if !m.Mounted() {
		t.Fatalf("expected mounted model")
	}
	return m
}

func TestTickDrivesFramesForCurrentMount(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := mounted(t, port)

	m, cmd := m.Update(tickMsg{gen: m.gen, at: time.Now()})
	if cmd == nil {
		t.Fatalf("expected a frame command")
	}
	m, next := m.Update(cmd())
	if port.frames != 1 {
		t.Fatalf("frames = %d, want 1", port.frames)
	}
	if next == nil {
		t.Fatalf("expected the next tick to be scheduled")
	}
	if m.scrollY != 3 {
		t.Fatalf("scrollY = %v, want 3", m.scrollY)
	}
}

func TestStaleTicksAreDroppedAfterClose(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := mounted(t, port)
	stale := m.gen

	closeCmd := m.Close()
	if closeCmd == nil {
		t.Fatalf("expected an unmount command")
	}
	m, _ = m.Update(closeCmd())
	if len(port.unmounted) != 1 || port.unmounted[0] != "m-1" {
		t.Fatalf("unexpected unmounts: %v", port.unmounted)
	}
	if m.Close() != nil {
		t.Fatalf("second close should be a no-op")
	}

	if _, cmd := m.Update(tickMsg{gen: stale, at: time.Now()}); cmd != nil {
		t.Fatalf("stale tick produced a command")
	}
	if _, cmd := m.Update(frameMsg{gen: stale}); cmd != nil {
		t.Fatalf("stale frame produced a command")
	}
	if port.frames != 0 {
		t.Fatalf("frames = %d, want 0", port.frames)
	}
}

func TestKeysScrollWithinBounds(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := mounted(t, port)
	m, _ = m.Update(resizedMsg{gen: m.gen, out: choreodto.ResizeOutput{MaxScroll: 88}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	cmd()
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	cmd()
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	cmd()

	want := []float64{0, 88, 88}
	if len(port.scrolls) != len(want) {
		t.Fatalf("scrolls = %v, want %v", port.scrolls, want)
	}
	for i := range want {
		if port.scrolls[i] != want[i] {
			t.Fatalf("scrolls = %v, want %v", port.scrolls, want)
		}
	}
}

func TestFrameErrorKeepsTicking(t *testing.T) {
	t.Parallel()
	port := &fakePort{frameErr: errors.New("busy")}
	m := mounted(t, port)

	_, cmd := m.Update(tickMsg{gen: m.gen, at: time.Now()})
	m, next := m.Update(cmd())
	if next == nil {
		t.Fatalf("a failed frame must still schedule the next tick")
	}
	if m.status == "" {
		t.Fatalf("expected the frame error in the status line")
	}
}

func TestFramesDoNotRewindPendingScrolls(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := mounted(t, port)
	m, _ = m.Update(resizedMsg{gen: m.gen, out: choreodto.ResizeOutput{MaxScroll: 88}})

	// A frame computed before the first scroll reached the engine.
	early := frameMsg{gen: m.gen, out: choreodto.FrameOutput{MountID: "m-1", ScrollY: 0, ViewportW: 40, ViewportH: 12}}

	m, first := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = m.Update(early)
	m, second := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = m.Update(first())
	if m.scrollY != 2 {
		t.Fatalf("an older scroll reply rewound the offset to %v", m.scrollY)
	}
	m, _ = m.Update(second())

	want := []float64{1, 2}
	if len(port.scrolls) != len(want) || port.scrolls[0] != want[0] || port.scrolls[1] != want[1] {
		t.Fatalf("scrolls = %v, want %v", port.scrolls, want)
	}
	if m.scrollY != 2 || m.scrolling != 0 {
		t.Fatalf("scrollY = %v with %d pending, want 2 with none", m.scrollY, m.scrolling)
	}
	m, _ = m.Update(frameMsg{gen: m.gen, out: choreodto.FrameOutput{MountID: "m-1", ScrollY: 2, ViewportW: 40, ViewportH: 12}})
	if m.scrollY != 2 {
		t.Fatalf("settled frame should keep the offset, got %v", m.scrollY)
	}
}
