package counter

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

// SQLite persists the counter in a single-row table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dsn. ":memory:" keeps the
// counter for the lifetime of the returned value.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("counter: open %s: %w", dsn, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS counter (id INTEGER PRIMARY KEY CHECK (id = 1), value INTEGER NOT NULL)`,
		`INSERT OR IGNORE INTO counter (id, value) VALUES (1, 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("counter: init schema: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context) (int64, error) {
	var v int64
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM counter WHERE id = 1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("counter: get: %w", err)
	}
	return v, nil
}

func (s *SQLite) Add(ctx context.Context, step int64) (int64, error) {
	if err := validStep(step); err != nil {
		return 0, err
	}
	var v int64
	err := s.db.QueryRowContext(ctx, `UPDATE counter SET value = value + ? WHERE id = 1 RETURNING value`, step).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("counter: add: %w", err)
	}
	return v, nil
}

func (s *SQLite) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE counter SET value = 0 WHERE id = 1`); err != nil {
		return fmt.Errorf("counter: reset: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
