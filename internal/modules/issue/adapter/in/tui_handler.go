package in

import (
	"context"

	"gazette/internal/modules/issue/dto"
	issuein "gazette/internal/modules/issue/port/in"
)

type TUIHandler struct {
	usecase issuein.Usecase
}

func NewTUIHandler(usecase issuein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) List(ctx context.Context) ([]dto.IssueOutput, error) {
	return h.usecase.List(ctx)
}

func (h TUIHandler) Get(ctx context.Context, id string) (dto.IssueDetailOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h TUIHandler) Position(ctx context.Context, id string) (dto.PositionOutput, error) {
	return h.usecase.Position(ctx, id)
}
