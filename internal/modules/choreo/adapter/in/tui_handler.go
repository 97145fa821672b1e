package in

import (
	"context"
	"time"

	"gazette/internal/modules/choreo/dto"
	choreoin "gazette/internal/modules/choreo/port/in"
)

type TUIHandler struct {
	usecase choreoin.Usecase
}

func NewTUIHandler(usecase choreoin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

// Mount opens issueID at the top, or at the saved position when resume is set.
func (h TUIHandler) Mount(ctx context.Context, issueID string, width, height int, resume bool) (dto.MountOutput, error) {
	return h.usecase.Mount(ctx, dto.MountInput{IssueID: issueID, ViewportW: width, ViewportH: height, Resume: resume})
}

func (h TUIHandler) Scroll(ctx context.Context, mountID string, scrollY float64) (dto.ScrollOutput, error) {
	return h.usecase.Scroll(ctx, dto.ScrollInput{MountID: mountID, ScrollY: scrollY})
}

func (h TUIHandler) Resize(ctx context.Context, mountID string, width, height int) (dto.ResizeOutput, error) {
	return h.usecase.Resize(ctx, dto.ResizeInput{MountID: mountID, Width: width, Height: height})
}

func (h TUIHandler) Frame(ctx context.Context, mountID string, now time.Time) (dto.FrameOutput, error) {
	return h.usecase.Frame(ctx, dto.FrameInput{MountID: mountID, Now: now})
}

func (h TUIHandler) Unmount(ctx context.Context, mountID string) (dto.UnmountOutput, error) {
	return h.usecase.Unmount(ctx, dto.UnmountInput{MountID: mountID})
}
