// Package history persists the outcome of every bulk action in a local
// SQLite file so failed clears and retries can be inspected later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the bulk-action history database.
type Store struct {
	DB     *sql.DB
	dbFile string
}

// Open opens (creating if needed) the history database at path and applies
// the schema. Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// One writer; sqlite serialises anyway and :memory: needs a single conn.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	s := &Store{DB: db, dbFile: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file the store was opened with.
func (s *Store) Path() string { return s.dbFile }

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bulk_runs (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			task_type TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			total INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS bulk_outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			task_id INTEGER NOT NULL,
			task_name TEXT NOT NULL,
			error TEXT,
			FOREIGN KEY(run_id) REFERENCES bulk_runs(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_bulk_runs_started ON bulk_runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_bulk_outcomes_run ON bulk_outcomes(run_id);`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
