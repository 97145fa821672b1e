package usecase

import (
	"context"

	"gazette/internal/modules/choreo/dto"
	choreoin "gazette/internal/modules/choreo/port/in"
	"gazette/internal/modules/choreo/service"
)

type Interactor struct {
	svc *service.StageService
}

func NewInteractor(svc *service.StageService) choreoin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Mount(ctx context.Context, input dto.MountInput) (dto.MountOutput, error) {
	return i.svc.Mount(ctx, input)
}

func (i *Interactor) Scroll(ctx context.Context, input dto.ScrollInput) (dto.ScrollOutput, error) {
	return i.svc.Scroll(ctx, input)
}

func (i *Interactor) Resize(ctx context.Context, input dto.ResizeInput) (dto.ResizeOutput, error) {
	return i.svc.Resize(ctx, input)
}

func (i *Interactor) Frame(ctx context.Context, input dto.FrameInput) (dto.FrameOutput, error) {
	return i.svc.Frame(ctx, input)
}

func (i *Interactor) Unmount(ctx context.Context, input dto.UnmountInput) (dto.UnmountOutput, error) {
	return i.svc.Unmount(ctx, input)
}

func (i *Interactor) Simulate(ctx context.Context, input dto.SimulateInput) ([]dto.SimulateRow, error) {
	return i.svc.Simulate(ctx, input)
}
