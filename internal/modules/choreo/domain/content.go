package domain

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindHero    Kind = "hero"
	KindLead    Kind = "lead"
	KindArticle Kind = "article"
	KindTerms   Kind = "terms"
	KindTrack   Kind = "track"
)

func (k Kind) Validate() error {
	switch k {
	case KindHero, KindLead, KindArticle, KindTerms, KindTrack:
		return nil
	default:
		return fmt.Errorf("unsupported section kind %q", string(k))
	}
}

type Block struct {
	Text     string
	Delay    time.Duration
	Emphasis bool
}

type Card struct {
	Title string
	Body  string
}

// Hints size layout-dependent phases. Length overrides the kind's default
// length in viewport heights.
type Hints struct {
	GapPx       float64
	CardWidthPx float64
	Length      float64
}

type SectionContent struct {
	ID          string
	Kind        Kind
	Motif       string
	Title       string
	ScatterWord string
	Blocks      []Block
	Cards       []Card
	Terms       []string
	Hints       Hints
	Hold        bool
}

// Content is the payload a mount is built from.
type Content struct {
	IssueID  string
	Title    string
	Subtitle string
	Sections []SectionContent
}
