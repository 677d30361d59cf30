package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"platter/internal/services"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    album_path TEXT NOT NULL,
    status TEXT NOT NULL,
    detail TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_album ON runs(album_path);
CREATE INDEX IF NOT EXISTS idx_runs_updated ON runs(updated_at);
`

// Run is one recorded pipeline pass over an album.
type Run struct {
	ID        string
	AlbumPath string
	Status    Status
	Detail    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes the run database under stateDir.
func OpenStore(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	dbPath := filepath.Join(stateDir, "runs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records a new run for an album and returns it.
func (s *Store) StartRun(ctx context.Context, albumPath string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:        uuid.NewString(),
		AlbumPath: albumPath,
		Status:    StatusRipped,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, album_path, status, detail, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.AlbumPath, string(run.Status), "",
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// UpdateStatus advances a run's status, optionally attaching detail.
func (s *Store) UpdateStatus(ctx context.Context, runID string, status Status, detail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, detail = ?, updated_at = ? WHERE id = ?`,
		string(status), detail, time.Now().UTC().Format(time.RFC3339Nano), runID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", runID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "workflow", "update_status",
			fmt.Sprintf("run %s not found", runID), nil)
	}
	return nil
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, album_path, status, detail, created_at, updated_at FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "workflow", "get_run",
			fmt.Sprintf("run %s not found", runID), nil)
	}
	return run, err
}

// RecentRuns lists the most recently updated runs.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, album_path, status, detail, created_at, updated_at
         FROM runs ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var status, created, updated string
	if err := row.Scan(&run.ID, &run.AlbumPath, &status, &run.Detail, &created, &updated); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		run.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		run.UpdatedAt = t
	}
	return &run, nil
}
