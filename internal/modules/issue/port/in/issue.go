package in

import (
	"context"

	"gazette/internal/modules/issue/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.IssueOutput, error)
	Get(ctx context.Context, id string) (dto.IssueDetailOutput, error)
	ImportMarkdown(ctx context.Context, input dto.ImportInput) (dto.IssueOutput, error)
	ImportPDF(ctx context.Context, input dto.ImportInput) (dto.IssueOutput, error)
	Reindex(ctx context.Context, input dto.ReindexInput) error
	SavePosition(ctx context.Context, input dto.SavePositionInput) error
	Position(ctx context.Context, id string) (dto.PositionOutput, error)
}
