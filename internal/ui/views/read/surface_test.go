package read_test

import (
	"strings"
	"testing"

	choreodto "gazette/internal/modules/choreo/dto"
	"gazette/internal/ui/views/read"
)

func glyphs(word string, visible int) []choreodto.GlyphFrame {
	out := make([]choreodto.GlyphFrame, 0, len(word))
	for i, r := range []rune(word) {
		out = append(out, choreodto.GlyphFrame{Rune: r, Visible: i < visible})
	}
	return out
}

func TestSurfacePaintsOnlyRevealedContent(t *testing.T) {
	t.Parallel()
	s := read.NewSurface(choreodto.MountOutput{
		Title: "Gazette",
		Sections: []choreodto.SectionInfo{
			{ID: "hero-0", Kind: "hero", Title: "Gazette", Blocks: []choreodto.BlockInfo{{Text: "first block"}, {Text: "second block"}}},
			{ID: "article-1", Kind: "article", Title: "Notes", Blocks: []choreodto.BlockInfo{{Text: "alpha"}, {Text: "beta"}}},
		},
	})
	s.Apply(choreodto.FrameOutput{
		Recomputed:     true,
		ViewportW:      40,
		ViewportH:      12,
		DocumentHeight: 40,
		Sections: []choreodto.SectionFrame{
			{ID: "hero-0", Kind: "hero", Top: 0, Height: 24, Measured: true, Params: map[string]float64{choreodto.ParamOpacity: 1}, Reveal: choreodto.RevealFrame{Revealed: 1, Total: 2}, Letters: glyphs("Gazette", 2)},
			{ID: "article-1", Kind: "article", Top: 24, Height: 16, Measured: true, Params: map[string]float64{choreodto.ParamRevealCount: 1}},
		},
	})

	out := s.Render()
	if got := strings.Count(out, "\n") + 1; got != 12 {
		t.Fatalf("expected 12 rows, got %d", got)
	}
	if !strings.Contains(out, "Ga") || strings.Contains(out, "Gazette") {
		t.Fatalf("expected only the visible title letters:\n%s", out)
	}
	if !strings.Contains(out, "first block") || strings.Contains(out, "second block") {
		t.Fatalf("expected only the first block:\n%s", out)
	}
	if strings.Contains(out, "Notes") {
		t.Fatalf("article is below the viewport:\n%s", out)
	}

	s.Apply(choreodto.FrameOutput{
		Recomputed:     true,
		ScrollY:        24,
		ViewportW:      40,
		ViewportH:      12,
		DocumentHeight: 40,
		Sections: []choreodto.SectionFrame{
			{ID: "hero-0", Kind: "hero", Top: 0, Height: 24, Measured: true, Params: map[string]float64{}, Letters: glyphs("Gazette", 7)},
			{ID: "article-1", Kind: "article", Top: 24, Height: 16, Measured: true, Params: map[string]float64{choreodto.ParamRevealCount: 1}},
		},
	})
	out = s.Render()
	if !strings.Contains(out, "Notes") || !strings.Contains(out, "alpha") {
		t.Fatalf("expected the article title and first block:\n%s", out)
	}
	if strings.Contains(out, "beta") {
		t.Fatalf("revealCount 1 should hide the second block:\n%s", out)
	}

	// A frame without a scroll pass still moves the article count.
	s.Apply(choreodto.FrameOutput{
		ScrollY:        24,
		ViewportW:      40,
		ViewportH:      12,
		DocumentHeight: 40,
		Sections: []choreodto.SectionFrame{
			{ID: "hero-0", Kind: "hero", Top: 0, Height: 24, Measured: true, Params: map[string]float64{}, Letters: glyphs("Gazette", 7)},
			{ID: "article-1", Kind: "article", Top: 24, Height: 16, Measured: true, Params: map[string]float64{choreodto.ParamRevealCount: 2}},
		},
	})
	if out = s.Render(); !strings.Contains(out, "beta") {
		t.Fatalf("revealCount 2 should show the second block:\n%s", out)
	}
}

func TestSurfaceCropsTrackAtOffset(t *testing.T) {
	t.Parallel()
	s := read.NewSurface(choreodto.MountOutput{
		Sections: []choreodto.SectionInfo{{
			ID:          "track-0",
			Kind:        "track",
			Title:       "Cards",
			Cards:       []choreodto.CardInfo{{Title: "One"}, {Title: "Two"}},
			CardWidth:   10,
			CardSpacing: 2,
		}},
	})
	frame := func(tx float64) choreodto.FrameOutput {
		return choreodto.FrameOutput{
			Recomputed: true,
			ViewportW:  12,
			ViewportH:  10,
			Sections: []choreodto.SectionFrame{{
				ID: "track-0", Kind: "track", Top: 0, Height: 30, Measured: true,
				Params: map[string]float64{choreodto.ParamTranslateX: tx, choreodto.ParamOpacity: 1},
			}},
		}
	}

	s.Apply(frame(0))
	out := s.Render()
	if !strings.Contains(out, "One") || strings.Contains(out, "Two") {
		t.Fatalf("expected the first card only:\n%s", out)
	}

	s.Apply(frame(-12))
	out = s.Render()
	if strings.Contains(out, "One") || !strings.Contains(out, "Two") {
		t.Fatalf("expected the second card only:\n%s", out)
	}
}

func TestSurfaceMotifsAreDistinct(t *testing.T) {
	t.Parallel()
	s := read.NewSurface(choreodto.MountOutput{Sections: []choreodto.SectionInfo{
		{ID: "a", Kind: "lead", Motif: "dots"},
		{ID: "b", Kind: "article", Motif: "dots"},
		{ID: "c", Kind: "article", Motif: "waves"},
		{ID: "d", Kind: "article"},
	}})
	got := s.Motifs()
	if len(got) != 2 || got[0] != "dots" || got[1] != "waves" {
		t.Fatalf("unexpected motifs: %v", got)
	}
}
