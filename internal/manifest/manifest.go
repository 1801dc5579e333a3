// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records render history in a SQLite database. The manifest
// is informational only: skip decisions are driven solely by output-file
// existence, never by rows in this database.
package manifest

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS renders (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	equation_id TEXT NOT NULL,
	latex_sha   TEXT NOT NULL,
	status      TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	stderr_tail TEXT NOT NULL DEFAULT '',
	rendered_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS renders_equation_idx ON renders(equation_id, id);
`

// Entry is one recorded render attempt.
type Entry struct {
	EquationID string        `json:"equation_id"`
	LatexSHA   string        `json:"latex_sha"`
	Status     string        `json:"status"`
	Duration   time.Duration `json:"duration"`
	StderrTail string        `json:"stderr_tail,omitempty"`
	RenderedAt time.Time     `json:"rendered_at"`
}

// Store wraps the manifest database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database at path, creating the schema
// and any parent directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// ChecksumLatex returns the hex sha256 of an equation body, used to tell
// whether an equation changed between recorded renders.
func ChecksumLatex(latex string) string {
	sum := sha256.Sum256([]byte(latex))
	return hex.EncodeToString(sum[:])
}

// Record inserts one render attempt.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (equation_id, latex_sha, status, duration_ms, stderr_tail, rendered_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.EquationID, e.LatexSHA, e.Status, e.Duration.Milliseconds(), e.StderrTail,
		e.RenderedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording render for %s: %w", e.EquationID, err)
	}
	return nil
}

// Latest returns the most recent attempt per equation, newest first.
func (s *Store) Latest(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT equation_id, latex_sha, status, duration_ms, stderr_tail, rendered_at
		FROM renders
		WHERE id IN (SELECT MAX(id) FROM renders GROUP BY equation_id)
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying latest renders: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// History returns every attempt for one equation, newest first.
func (s *Store) History(ctx context.Context, equationID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT equation_id, latex_sha, status, duration_ms, stderr_tail, rendered_at
		FROM renders
		WHERE equation_id = ?
		ORDER BY id DESC`, equationID)
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", equationID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		var renderedAt string
		if err := rows.Scan(&e.EquationID, &e.LatexSHA, &e.Status, &durationMS, &e.StderrTail, &renderedAt); err != nil {
			return nil, fmt.Errorf("scanning render row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		t, err := time.Parse(time.RFC3339Nano, renderedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing rendered_at %q: %w", renderedAt, err)
		}
		e.RenderedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
