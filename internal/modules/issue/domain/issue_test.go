package domain_test

import (
	"testing"
	"time"

	"gazette/internal/modules/issue/domain"
)

func TestKindValidate(t *testing.T) {
	t.Parallel()
	for _, kind := range []domain.Kind{domain.KindHero, domain.KindLead, domain.KindArticle, domain.KindTerms, domain.KindTrack} {
		if err := kind.Validate(); err != nil {
			t.Fatalf("%s should be valid: %v", kind, err)
		}
	}
	if err := domain.Kind("carousel").Validate(); err == nil {
		t.Fatalf("unknown kind should fail")
	}
}

func TestIssueValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	base := domain.Issue{
		ID:    "id-1",
		Slug:  "spring",
		Title: "Spring",
		Sections: []domain.Section{
			{ID: "hero", Kind: domain.KindHero, Title: "Spring"},
			{ID: "lead", Kind: domain.KindLead, Blocks: []domain.Block{{Text: "a"}, {Text: "b", DelayMS: 700}}},
		},
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("issue should be valid: %v", err)
	}
	if base.BlockCount() != 2 {
		t.Fatalf("expected 2 blocks, got %d", base.BlockCount())
	}

	missingTitle := base
	missingTitle.Title = " "
	if err := missingTitle.Validate(); err == nil {
		t.Fatalf("missing title should fail")
	}

	duplicate := base
	duplicate.Sections = []domain.Section{base.Sections[0], base.Sections[0]}
	if err := duplicate.Validate(); err == nil {
		t.Fatalf("duplicate section ids should fail")
	}

	negative := base
	negative.Sections = []domain.Section{{ID: "lead", Kind: domain.KindLead, Blocks: []domain.Block{{Text: "a", DelayMS: -1}}}}
	if err := negative.Validate(); err == nil {
		t.Fatalf("negative delay should fail")
	}

	badHints := base
	badHints.Sections = []domain.Section{{ID: "t", Kind: domain.KindTrack, Hints: domain.Hints{GapPx: -4}}}
	if err := badHints.Validate(); err == nil {
		t.Fatalf("negative hints should fail")
	}
}
