package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"gazette/internal/modules/issue/domain"
	issueout "gazette/internal/modules/issue/port/out"
	"gazette/internal/platform/clock"
	apperrors "gazette/internal/platform/errors"
	"gazette/internal/platform/id"
	"gazette/internal/platform/slug"
)

type IssueService struct {
	clock     clock.Clock
	idGen     id.Generator
	store     issueout.IssueStore
	projector issueout.IssueIndexProjector
	markdown  issueout.Importer
	pdf       issueout.Importer
	logger    hclog.Logger
}

func NewIssueService(clock clock.Clock, idGen id.Generator, store issueout.IssueStore, projector issueout.IssueIndexProjector, markdown, pdf issueout.Importer, logger hclog.Logger) *IssueService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &IssueService{
		clock:     clock,
		idGen:     idGen,
		store:     store,
		projector: projector,
		markdown:  markdown,
		pdf:       pdf,
		logger:    logger.Named("issue"),
	}
}

func (s *IssueService) ImportMarkdown(ctx context.Context, path, title string) (domain.Issue, error) {
	return s.importWith(ctx, s.markdown, "markdown", path, title)
}

func (s *IssueService) ImportPDF(ctx context.Context, path, title string) (domain.Issue, error) {
	return s.importWith(ctx, s.pdf, "pdf", path, title)
}

func (s *IssueService) importWith(ctx context.Context, importer issueout.Importer, format, path, title string) (domain.Issue, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Issue{}, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	if importer == nil {
		return domain.Issue{}, fmt.Errorf("%s import is not configured", format)
	}
	draft, err := importer.Import(ctx, path)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("import %s: %w", format, err)
	}
	if len(draft.Sections) == 0 {
		return domain.Issue{}, fmt.Errorf("%w: %s", apperrors.ErrEmptyIssue, path)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(draft.Title)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	now := s.clock.Now()
	issue := domain.Issue{
		ID:        s.idGen.New(),
		Slug:      slug.Make(title),
		Title:     title,
		Subtitle:  draft.Subtitle,
		Source:    path,
		Sections:  normalizeSections(draft.Sections, draft.Motif),
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := issue.Validate(); err != nil {
		return domain.Issue{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	saved, err := s.store.Save(ctx, issue)
	if err != nil {
		return domain.Issue{}, err
	}
	issue.Path = saved
	if err := s.projector.UpsertIssue(ctx, issue); err != nil {
		return domain.Issue{}, err
	}
	s.logger.Info("imported issue", "format", format, "id", issue.ID, "slug", issue.Slug, "sections", len(issue.Sections))
	return issue, nil
}

func (s *IssueService) List(ctx context.Context) ([]domain.Issue, error) {
	return s.store.List(ctx)
}

func (s *IssueService) Get(ctx context.Context, issueID string) (domain.Issue, error) {
	if strings.TrimSpace(issueID) == "" {
		return domain.Issue{}, fmt.Errorf("%w: issue id is required", apperrors.ErrInvalidInput)
	}
	return s.store.FindByID(ctx, issueID)
}

func (s *IssueService) Reindex(ctx context.Context) error {
	if err := s.projector.Reset(ctx); err != nil {
		return err
	}
	issues, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		if err := s.projector.UpsertIssue(ctx, issue); err != nil {
			return err
		}
	}
	s.logger.Debug("reindexed issues", "count", len(issues))
	return nil
}

func (s *IssueService) SavePosition(ctx context.Context, issueID string, scrollY, percent float64) error {
	if _, err := s.store.FindByID(ctx, issueID); err != nil {
		return err
	}
	if scrollY < 0 {
		scrollY = 0
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return s.projector.SavePosition(ctx, domain.Position{IssueID: issueID, ScrollY: scrollY, Percent: percent, UpdatedAt: s.clock.Now()})
}

// Position returns the saved offset and whether one exists.
func (s *IssueService) Position(ctx context.Context, issueID string) (domain.Position, bool, error) {
	pos, err := s.projector.Position(ctx, issueID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Position{IssueID: issueID}, false, nil
	}
	if err != nil {
		return domain.Position{}, false, err
	}
	return pos, true, nil
}

// normalizeSections fills in section ids and the issue-wide motif.
func normalizeSections(sections []domain.Section, motif string) []domain.Section {
	out := make([]domain.Section, len(sections))
	used := map[string]int{}
	for i, sec := range sections {
		if strings.TrimSpace(sec.ID) == "" {
			base := string(sec.Kind)
			if sec.Title != "" {
				base = slug.Make(sec.Title)
			}
			sec.ID = base
		}
		if n := used[sec.ID]; n > 0 {
			used[sec.ID] = n + 1
			sec.ID = sec.ID + "-" + strconv.Itoa(n+1)
		} else {
			used[sec.ID] = 1
		}
		if sec.Motif == "" {
			sec.Motif = motif
		}
		out[i] = sec
	}
	return out
}
