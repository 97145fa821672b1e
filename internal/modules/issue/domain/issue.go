package domain

import (
	"fmt"
	"strings"
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

const SchemaVersion = 1

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
	DelayMS  int
	Emphasis bool
}

type Card struct {
	Title string
	Body  string
}

type Hints struct {
	GapPx       float64
	CardWidthPx float64
	Length      float64
}

type Section struct {
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

type Issue struct {
	ID        string
	Slug      string
	Title     string
	Subtitle  string
	Source    string
	Sections  []Section
	AddedAt   time.Time
	UpdatedAt time.Time
	Path      string
}

// Draft is what an importer extracts before the issue gets an identity.
type Draft struct {
	Title    string
	Subtitle string
	Motif    string
	Sections []Section
}

// Position is the last reading offset of an issue.
type Position struct {
	IssueID   string
	ScrollY   float64
	Percent   float64
	UpdatedAt time.Time
}

func (s Section) Validate() error {
	if err := s.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("section id is required")
	}
	for i, b := range s.Blocks {
		if b.DelayMS < 0 {
			return fmt.Errorf("section %s block %d: delay must not be negative", s.ID, i)
		}
	}
	if s.Hints.GapPx < 0 || s.Hints.CardWidthPx < 0 || s.Hints.Length < 0 {
		return fmt.Errorf("section %s: layout hints must not be negative", s.ID)
	}
	return nil
}

func (i Issue) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(i.Slug) == "" {
		return fmt.Errorf("slug is required")
	}
	seen := map[string]struct{}{}
	for _, s := range i.Sections {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// BlockCount is the number of text blocks across all sections.
func (i Issue) BlockCount() int {
	n := 0
	for _, s := range i.Sections {
		n += len(s.Blocks)
	}
	return n
}
