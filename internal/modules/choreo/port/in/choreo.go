package in

import (
	"context"

	"gazette/internal/modules/choreo/dto"
)

type Usecase interface {
	Mount(ctx context.Context, input dto.MountInput) (dto.MountOutput, error)
	Scroll(ctx context.Context, input dto.ScrollInput) (dto.ScrollOutput, error)
	Resize(ctx context.Context, input dto.ResizeInput) (dto.ResizeOutput, error)
	Frame(ctx context.Context, input dto.FrameInput) (dto.FrameOutput, error)
	Unmount(ctx context.Context, input dto.UnmountInput) (dto.UnmountOutput, error)
	Simulate(ctx context.Context, input dto.SimulateInput) ([]dto.SimulateRow, error)
}
