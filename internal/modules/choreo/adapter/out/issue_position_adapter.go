package out

import (
	"context"

	choreoout "gazette/internal/modules/choreo/port/out"
	issuedto "gazette/internal/modules/issue/dto"
	issuein "gazette/internal/modules/issue/port/in"
)

type IssuePositionAdapter struct {
	issues issuein.Usecase
}

func NewIssuePositionAdapter(issues issuein.Usecase) choreoout.PositionStore {
	return &IssuePositionAdapter{issues: issues}
}

func (a *IssuePositionAdapter) Load(ctx context.Context, issueID string) (float64, bool, error) {
	pos, err := a.issues.Position(ctx, issueID)
	if err != nil {
		return 0, false, err
	}
	return pos.ScrollY, pos.Found, nil
}

func (a *IssuePositionAdapter) Save(ctx context.Context, issueID string, scrollY, percent float64) error {
	return a.issues.SavePosition(ctx, issuedto.SavePositionInput{IssueID: issueID, ScrollY: scrollY, Percent: percent})
}
