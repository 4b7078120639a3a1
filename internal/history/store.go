// Package history persists terminal build job records.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one finished build job.
type Record struct {
	ID         string
	Title      string
	Source     string
	State      string
	Error      string
	Artifact   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store records and lists build history.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// NoopStore is used when no history path is configured.
type NoopStore struct{}

func (NoopStore) Append(context.Context, Record) error          { return nil }
func (NoopStore) Recent(context.Context, int) ([]Record, error) { return nil, nil }
func (NoopStore) Close() error                                  { return nil }

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (creating if needed) the build history database.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		title TEXT,
		source TEXT,
		state TEXT NOT NULL,
		error TEXT,
		artifact TEXT,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one terminal job record.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, title, source, state, error, artifact, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Title, rec.Source, rec.State, rec.Error, rec.Artifact,
		rec.StartedAt.Unix(), rec.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, source, state, error, artifact, started_at, finished_at FROM builds ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		var rec Record
		var started, finished int64
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Source, &rec.State, &rec.Error, &rec.Artifact, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.StartedAt = time.Unix(started, 0)
		rec.FinishedAt = time.Unix(finished, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
