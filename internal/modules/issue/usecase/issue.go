package usecase

import (
	"context"

	"gazette/internal/modules/issue/domain"
	"gazette/internal/modules/issue/dto"
	issuein "gazette/internal/modules/issue/port/in"
	"gazette/internal/modules/issue/service"
)

type Interactor struct {
	svc *service.IssueService
}

func NewInteractor(svc *service.IssueService) issuein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.IssueOutput, error) {
	issues, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IssueOutput, 0, len(issues))
	for _, issue := range issues {
		out = append(out, toOutput(issue))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.IssueDetailOutput, error) {
	issue, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.IssueDetailOutput{}, err
	}
	detail := dto.IssueDetailOutput{
		ID:        issue.ID,
		Slug:      issue.Slug,
		Title:     issue.Title,
		Subtitle:  issue.Subtitle,
		Source:    issue.Source,
		Path:      issue.Path,
		UpdatedAt: issue.UpdatedAt,
	}
	for _, sec := range issue.Sections {
		detail.Sections = append(detail.Sections, toSectionOutput(sec))
	}
	return detail, nil
}

func (i *Interactor) ImportMarkdown(ctx context.Context, input dto.ImportInput) (dto.IssueOutput, error) {
	issue, err := i.svc.ImportMarkdown(ctx, input.Path, input.Title)
	if err != nil {
		return dto.IssueOutput{}, err
	}
	return toOutput(issue), nil
}

func (i *Interactor) ImportPDF(ctx context.Context, input dto.ImportInput) (dto.IssueOutput, error) {
	issue, err := i.svc.ImportPDF(ctx, input.Path, input.Title)
	if err != nil {
		return dto.IssueOutput{}, err
	}
	return toOutput(issue), nil
}

func (i *Interactor) Reindex(ctx context.Context, _ dto.ReindexInput) error {
	return i.svc.Reindex(ctx)
}

func (i *Interactor) SavePosition(ctx context.Context, input dto.SavePositionInput) error {
	return i.svc.SavePosition(ctx, input.IssueID, input.ScrollY, input.Percent)
}

func (i *Interactor) Position(ctx context.Context, id string) (dto.PositionOutput, error) {
	pos, found, err := i.svc.Position(ctx, id)
	if err != nil {
		return dto.PositionOutput{}, err
	}
	return dto.PositionOutput{IssueID: id, ScrollY: pos.ScrollY, Percent: pos.Percent, Found: found, UpdatedAt: pos.UpdatedAt}, nil
}

func toOutput(issue domain.Issue) dto.IssueOutput {
	return dto.IssueOutput{
		ID:       issue.ID,
		Slug:     issue.Slug,
		Title:    issue.Title,
		Subtitle: issue.Subtitle,
		Sections: len(issue.Sections),
		Blocks:   issue.BlockCount(),
		Path:     issue.Path,
	}
}

func toSectionOutput(sec domain.Section) dto.SectionOutput {
	out := dto.SectionOutput{
		ID:          sec.ID,
		Kind:        string(sec.Kind),
		Motif:       sec.Motif,
		Title:       sec.Title,
		ScatterWord: sec.ScatterWord,
		Terms:       append([]string(nil), sec.Terms...),
		GapPx:       sec.Hints.GapPx,
		CardWidthPx: sec.Hints.CardWidthPx,
		Length:      sec.Hints.Length,
		Hold:        sec.Hold,
	}
	for _, b := range sec.Blocks {
		out.Blocks = append(out.Blocks, dto.BlockOutput{Text: b.Text, DelayMS: b.DelayMS, Emphasis: b.Emphasis})
	}
	for _, c := range sec.Cards {
		out.Cards = append(out.Cards, dto.CardOutput{Title: c.Title, Body: c.Body})
	}
	return out
}
