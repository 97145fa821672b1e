package in

import (
	"context"

	"gazette/internal/modules/choreo/dto"
	choreoin "gazette/internal/modules/choreo/port/in"
)

type CLIHandler struct {
	usecase choreoin.Usecase
}

func NewCLIHandler(usecase choreoin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Simulate(ctx context.Context, issueID string, width, height int, step float64) ([]dto.SimulateRow, error) {
	return h.usecase.Simulate(ctx, dto.SimulateInput{IssueID: issueID, Width: width, Height: height, Step: step})
}
