package usecase

import (
	"context"

	"gazette/internal/modules/motif/dto"
	motifin "gazette/internal/modules/motif/port/in"
	"gazette/internal/modules/motif/service"
)

type Interactor struct {
	svc *service.MotifService
}

func NewInteractor(svc *service.MotifService) motifin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.MotifPluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error) {
	return i.svc.Render(ctx, input)
}
