package in

import (
	"context"

	"gazette/internal/modules/motif/dto"
	motifin "gazette/internal/modules/motif/port/in"
)

type CLIHandler struct {
	usecase motifin.Usecase
}

func NewCLIHandler(usecase motifin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.MotifPluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Render(ctx context.Context, motif string, width, height int, seed uint64) (dto.RenderOutput, error) {
	return h.usecase.Render(ctx, dto.RenderInput{Motif: motif, Width: width, Height: height, Seed: seed})
}
