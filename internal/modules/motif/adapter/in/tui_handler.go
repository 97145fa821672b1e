package in

import (
	"context"

	"gazette/internal/modules/motif/dto"
	motifin "gazette/internal/modules/motif/port/in"
)

// TUIHandler backs the motif tab and the reader backdrops.
type TUIHandler struct {
	usecase motifin.Usecase
}

func NewTUIHandler(usecase motifin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) List(ctx context.Context) ([]dto.MotifPluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h TUIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h TUIHandler) Backdrop(ctx context.Context, motif string, width, height int, seed uint64) ([]string, error) {
	out, err := h.usecase.Render(ctx, dto.RenderInput{Motif: motif, Width: width, Height: height, Seed: seed})
	if err != nil {
		return nil, err
	}
	return out.Lines, nil
}
