package out

import (
	"context"

	"gazette/internal/modules/issue/domain"
)

type IssueStore interface {
	Save(ctx context.Context, issue domain.Issue) (string, error)
	FindByID(ctx context.Context, id string) (domain.Issue, error)
	List(ctx context.Context) ([]domain.Issue, error)
}

type IssueIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertIssue(ctx context.Context, issue domain.Issue) error
	SavePosition(ctx context.Context, position domain.Position) error
	Position(ctx context.Context, issueID string) (domain.Position, error)
}

// Importer turns a file into a draft issue.
type Importer interface {
	Import(ctx context.Context, path string) (domain.Draft, error)
}
