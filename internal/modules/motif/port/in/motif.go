package in

import (
	"context"

	"gazette/internal/modules/motif/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.MotifPluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error)
}
