package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gazette/internal/modules/issue/domain"
	issueout "gazette/internal/modules/issue/port/out"
	apperrors "gazette/internal/platform/errors"
)

type blockFile struct {
	Text     string `yaml:"text"`
	DelayMS  int    `yaml:"delay_ms"`
	Emphasis bool   `yaml:"emphasis,omitempty"`
}

type cardFile struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body,omitempty"`
}

type hintsFile struct {
	GapPx       float64 `yaml:"gap_px,omitempty"`
	CardWidthPx float64 `yaml:"card_width_px,omitempty"`
	Length      float64 `yaml:"length,omitempty"`
}

type sectionFile struct {
	ID          string      `yaml:"id"`
	Kind        string      `yaml:"kind"`
	Motif       string      `yaml:"motif,omitempty"`
	Title       string      `yaml:"title,omitempty"`
	ScatterWord string      `yaml:"scatter_word,omitempty"`
	Hold        bool        `yaml:"hold,omitempty"`
	Hints       hintsFile   `yaml:"hints,omitempty"`
	Blocks      []blockFile `yaml:"blocks,omitempty"`
	Cards       []cardFile  `yaml:"cards,omitempty"`
	Terms       []string    `yaml:"terms,omitempty"`
}

type issueFile struct {
	SchemaVersion int           `yaml:"schema_version"`
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	Subtitle      string        `yaml:"subtitle,omitempty"`
	Source        string        `yaml:"source,omitempty"`
	AddedAt       string        `yaml:"added_at"`
	UpdatedAt     string        `yaml:"updated_at"`
	Sections      []sectionFile `yaml:"sections"`
}

// VaultIssueStore keeps one YAML document per issue under <vault>/issues.
type VaultIssueStore struct {
	vaultPath string
}

func NewVaultIssueStore(vaultPath string) issueout.IssueStore {
	return &VaultIssueStore{vaultPath: vaultPath}
}

func (s *VaultIssueStore) Save(_ context.Context, issue domain.Issue) (string, error) {
	issuePath := filepath.Join(s.vaultPath, "issues", issue.Slug+".yaml")
	if err := os.MkdirAll(filepath.Dir(issuePath), 0o755); err != nil {
		return "", fmt.Errorf("create issue directory: %w", err)
	}
	raw, err := yaml.Marshal(toFile(issue))
	if err != nil {
		return "", fmt.Errorf("marshal issue: %w", err)
	}
	if err := os.WriteFile(issuePath, raw, 0o644); err != nil {
		return "", fmt.Errorf("write issue yaml: %w", err)
	}
	return issuePath, nil
}

func (s *VaultIssueStore) FindByID(ctx context.Context, id string) (domain.Issue, error) {
	issues, err := s.List(ctx)
	if err != nil {
		return domain.Issue{}, err
	}
	for _, issue := range issues {
		if issue.ID == id || issue.Slug == id {
			return issue, nil
		}
	}
	return domain.Issue{}, fmt.Errorf("issue %s: %w", id, apperrors.ErrNotFound)
}

func (s *VaultIssueStore) List(_ context.Context) ([]domain.Issue, error) {
	matches, err := filepath.Glob(filepath.Join(s.vaultPath, "issues", "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob issues: %w", err)
	}
	sort.Strings(matches)

	out := make([]domain.Issue, 0, len(matches))
	for _, path := range matches {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		var file issueFile
		if decodeErr := yaml.Unmarshal(raw, &file); decodeErr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
		issue := fromFile(file, path)
		if validateErr := issue.Validate(); validateErr != nil {
			return nil, fmt.Errorf("decode issue %s: %w", path, validateErr)
		}
		out = append(out, issue)
	}
	return out, nil
}

func toFile(issue domain.Issue) issueFile {
	file := issueFile{
		SchemaVersion: domain.SchemaVersion,
		ID:            issue.ID,
		Title:         issue.Title,
		Subtitle:      issue.Subtitle,
		Source:        issue.Source,
		AddedAt:       issue.AddedAt.Format(time.RFC3339),
		UpdatedAt:     issue.UpdatedAt.Format(time.RFC3339),
		Sections:      make([]sectionFile, 0, len(issue.Sections)),
	}
	for _, sec := range issue.Sections {
		sf := sectionFile{
			ID:          sec.ID,
			Kind:        string(sec.Kind),
			Motif:       sec.Motif,
			Title:       sec.Title,
			ScatterWord: sec.ScatterWord,
			Hold:        sec.Hold,
			Hints:       hintsFile{GapPx: sec.Hints.GapPx, CardWidthPx: sec.Hints.CardWidthPx, Length: sec.Hints.Length},
			Terms:       sec.Terms,
		}
		for _, b := range sec.Blocks {
			sf.Blocks = append(sf.Blocks, blockFile{Text: b.Text, DelayMS: b.DelayMS, Emphasis: b.Emphasis})
		}
		for _, c := range sec.Cards {
			sf.Cards = append(sf.Cards, cardFile{Title: c.Title, Body: c.Body})
		}
		file.Sections = append(file.Sections, sf)
	}
	return file
}

func fromFile(file issueFile, path string) domain.Issue {
	issue := domain.Issue{
		ID:       file.ID,
		Slug:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Title:    file.Title,
		Subtitle: file.Subtitle,
		Source:   file.Source,
		Path:     path,
	}
	issue.AddedAt, _ = time.Parse(time.RFC3339, file.AddedAt)
	issue.UpdatedAt, _ = time.Parse(time.RFC3339, file.UpdatedAt)
	for _, sf := range file.Sections {
		sec := domain.Section{
			ID:          sf.ID,
			Kind:        domain.Kind(sf.Kind),
			Motif:       sf.Motif,
			Title:       sf.Title,
			ScatterWord: sf.ScatterWord,
			Hold:        sf.Hold,
			Hints:       domain.Hints{GapPx: sf.Hints.GapPx, CardWidthPx: sf.Hints.CardWidthPx, Length: sf.Hints.Length},
			Terms:       sf.Terms,
		}
		for _, b := range sf.Blocks {
			sec.Blocks = append(sec.Blocks, domain.Block{Text: b.Text, DelayMS: b.DelayMS, Emphasis: b.Emphasis})
		}
		for _, c := range sf.Cards {
			sec.Cards = append(sec.Cards, domain.Card{Title: c.Title, Body: c.Body})
		}
		issue.Sections = append(issue.Sections, sec)
	}
	return issue
}
