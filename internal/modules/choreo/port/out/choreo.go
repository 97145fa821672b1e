package out

import (
	"context"

	"gazette/internal/modules/choreo/domain"
)

// ContentSource resolves the payload a mount is built from.
type ContentSource interface {
	Resolve(ctx context.Context, issueID string) (domain.Content, error)
}

// PositionStore persists where a reader left an issue.
type PositionStore interface {
	Load(ctx context.Context, issueID string) (scrollY float64, found bool, err error)
	Save(ctx context.Context, issueID string, scrollY, percent float64) error
}
