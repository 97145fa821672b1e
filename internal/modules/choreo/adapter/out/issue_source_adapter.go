package out

import (
	"context"
	"time"

	"gazette/internal/modules/choreo/domain"
	choreoout "gazette/internal/modules/choreo/port/out"
	issuedto "gazette/internal/modules/issue/dto"
	issuein "gazette/internal/modules/issue/port/in"
)

type IssueSourceAdapter struct {
	issues issuein.Usecase
}

func NewIssueSourceAdapter(issues issuein.Usecase) choreoout.ContentSource {
	return &IssueSourceAdapter{issues: issues}
}

func (a *IssueSourceAdapter) Resolve(ctx context.Context, issueID string) (domain.Content, error) {
	issue, err := a.issues.Get(ctx, issueID)
	if err != nil {
		return domain.Content{}, err
	}
	content := domain.Content{IssueID: issue.ID, Title: issue.Title, Subtitle: issue.Subtitle}
	for _, sec := range issue.Sections {
		content.Sections = append(content.Sections, toSectionContent(sec))
	}
	return content, nil
}

func toSectionContent(sec issuedto.SectionOutput) domain.SectionContent {
	out := domain.SectionContent{
		ID:          sec.ID,
		Kind:        domain.Kind(sec.Kind),
		Motif:       sec.Motif,
		Title:       sec.Title,
		ScatterWord: sec.ScatterWord,
		Terms:       sec.Terms,
		Hints:       domain.Hints{GapPx: sec.GapPx, CardWidthPx: sec.CardWidthPx, Length: sec.Length},
		Hold:        sec.Hold,
	}
	for _, b := range sec.Blocks {
		out.Blocks = append(out.Blocks, domain.Block{Text: b.Text, Delay: time.Duration(b.DelayMS) * time.Millisecond, Emphasis: b.Emphasis})
	}
	for _, c := range sec.Cards {
		out.Cards = append(out.Cards, domain.Card{Title: c.Title, Body: c.Body})
	}
	return out
}
