package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gazette/internal/modules/issue/domain"
	issueout "gazette/internal/modules/issue/port/out"
	apperrors "gazette/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteIssueProjector struct {
	db *sql.DB
}

func NewSQLiteIssueProjector(dbPath string) (issueout.IssueIndexProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteIssueProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteIssueProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS issues (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL,
  title TEXT NOT NULL,
  subtitle TEXT,
  source TEXT,
  sections INTEGER NOT NULL,
  blocks INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS positions (
  issue_id TEXT PRIMARY KEY,
  scroll_y REAL NOT NULL,
  percent REAL NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create issue tables: %w", err)
	}
	return nil
}

// Reset clears the issue index. Reading positions survive a reindex.
func (s *SQLiteIssueProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM issues`); err != nil {
		return fmt.Errorf("reset issues: %w", err)
	}
	return nil
}

func (s *SQLiteIssueProjector) UpsertIssue(ctx context.Context, issue domain.Issue) error {
	const stmt = `
INSERT INTO issues (id, slug, title, subtitle, source, sections, blocks, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  slug=excluded.slug,
  title=excluded.title,
  subtitle=excluded.subtitle,
  source=excluded.source,
  sections=excluded.sections,
  blocks=excluded.blocks,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		issue.ID,
		issue.Slug,
		issue.Title,
		issue.Subtitle,
		issue.Source,
		len(issue.Sections),
		issue.BlockCount(),
		issue.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert issue: %w", err)
	}
	return nil
}

func (s *SQLiteIssueProjector) SavePosition(ctx context.Context, position domain.Position) error {
	const stmt = `
INSERT INTO positions (issue_id, scroll_y, percent, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(issue_id) DO UPDATE SET
  scroll_y=excluded.scroll_y,
  percent=excluded.percent,
  updated_at=excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, position.IssueID, position.ScrollY, position.Percent, position.UpdatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

func (s *SQLiteIssueProjector) Position(ctx context.Context, issueID string) (domain.Position, error) {
	row := s.db.QueryRowContext(ctx, `SELECT scroll_y, percent, updated_at FROM positions WHERE issue_id = ?`, issueID)
	pos := domain.Position{IssueID: issueID}
	var updated string
	if err := row.Scan(&pos.ScrollY, &pos.Percent, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Position{}, apperrors.ErrNotFound
		}
		return domain.Position{}, fmt.Errorf("read position: %w", err)
	}
	pos.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return pos, nil
}

func (s *SQLiteIssueProjector) Close() error {
	return s.db.Close()
}
