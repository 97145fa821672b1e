package dto

import (
	"strconv"
	"time"
)

// Parameter names carried in SectionFrame.Params.
const (
	ParamOpacity     = "opacity"
	ParamScale       = "scale"
	ParamTranslateX  = "translateX"
	ParamTranslateY  = "translateY"
	ParamColorMix    = "colorMix"
	ParamRevealCount = "revealCount"
)

// ItemParam names a parameter of the i-th item of a section (term, card).
func ItemParam(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}

// MountInput opens an issue. With Resume set the saved reading position
// replaces ScrollY when one exists.
type MountInput struct {
	IssueID   string
	ViewportW int
	ViewportH int
	ScrollY   float64
	Resume    bool
}

type BlockInfo struct {
	Text     string
	Emphasis bool
}

type CardInfo struct {
	Title string
	Body  string
}

type SectionInfo struct {
	ID          string
	Kind        string
	Motif       string
	Title       string
	ScatterWord string
	Blocks      []BlockInfo
	Cards       []CardInfo
	Terms       []string
	CardWidth   float64
	CardSpacing float64
}

type MountOutput struct {
	MountID       string
	IssueID       string
	Title         string
	Subtitle      string
	ScrollY       float64
	FrameInterval time.Duration
	Sections      []SectionInfo
}

type ScrollInput struct {
	MountID string
	ScrollY float64
}

type ScrollOutput struct {
	ScrollY float64
}

type ResizeInput struct {
	MountID string
	Width   int
	Height  int
}

type ResizeOutput struct {
	DocumentHeight float64
	MaxScroll      float64
	ScrollY        float64
}

type FrameInput struct {
	MountID string
	Now     time.Time
}

type RevealFrame struct {
	State     string
	Index     int
	Revealed  int
	Total     int
	Ready     bool
	Remaining time.Duration
}

type GlyphFrame struct {
	Rune    rune
	Visible bool
	DX      float64
	DY      float64
}

// SectionFrame is one section's output for a frame. Geometry, progress and
// Params come from the section's latest scroll pass; they are zero only
// before the first pass of the mount.
type SectionFrame struct {
	ID        string
	Kind      string
	Top       float64
	Height    float64
	Measured  bool
	Progress  float64
	Phase     int
	PhaseName string
	Local     float64
	Held      bool
	Params    map[string]float64
	Reveal    RevealFrame
	Letters   []GlyphFrame
}

type FrameOutput struct {
	MountID        string
	Elapsed        time.Duration
	Recomputed     bool
	TimersFired    int
	ScrollY        float64
	ViewportW      float64
	ViewportH      float64
	DocumentHeight float64
	Sections       []SectionFrame
}

type UnmountInput struct {
	MountID string
}

type UnmountOutput struct {
	MountID         string
	IssueID         string
	CancelledTimers int
	ScrollY         float64
	Percent         float64
}

type SimulateInput struct {
	IssueID string
	Width   int
	Height  int
	Step    float64
}

type SimulateRow struct {
	ScrollY   float64
	SectionID string
	Kind      string
	Progress  float64
	PhaseName string
	Local     float64
	Params    map[string]float64
}
