package in

import (
	"context"

	"gazette/internal/modules/issue/dto"
	issuein "gazette/internal/modules/issue/port/in"
)

type CLIHandler struct {
	usecase issuein.Usecase
}

func NewCLIHandler(usecase issuein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ImportMarkdown(ctx context.Context, path, title string) (dto.IssueOutput, error) {
	return h.usecase.ImportMarkdown(ctx, dto.ImportInput{Path: path, Title: title})
}

func (h CLIHandler) ImportPDF(ctx context.Context, path, title string) (dto.IssueOutput, error) {
	return h.usecase.ImportPDF(ctx, dto.ImportInput{Path: path, Title: title})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.IssueOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.IssueDetailOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Position(ctx context.Context, id string) (dto.PositionOutput, error) {
	return h.usecase.Position(ctx, id)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx, dto.ReindexInput{})
}
