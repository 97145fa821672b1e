package dto

import "time"

type ImportInput struct {
	Path  string
	Title string
}

type ReindexInput struct{}

type SavePositionInput struct {
	IssueID string
	ScrollY float64
	Percent float64
}

type IssueOutput struct {
	ID       string
	Slug     string
	Title    string
	Subtitle string
	Sections int
	Blocks   int
	Path     string
}

type BlockOutput struct {
	Text     string
	DelayMS  int
	Emphasis bool
}

type CardOutput struct {
	Title string
	Body  string
}

type SectionOutput struct {
	ID          string
	Kind        string
	Motif       string
	Title       string
	ScatterWord string
	Blocks      []BlockOutput
	Cards       []CardOutput
	Terms       []string
	GapPx       float64
	CardWidthPx float64
	Length      float64
	Hold        bool
}

type IssueDetailOutput struct {
	ID        string
	Slug      string
	Title     string
	Subtitle  string
	Source    string
	Path      string
	Sections  []SectionOutput
	UpdatedAt time.Time
}

type PositionOutput struct {
	IssueID   string
	ScrollY   float64
	Percent   float64
	Found     bool
	UpdatedAt time.Time
}
