// Package history records performed splits in a local sqlite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded split.
type Entry struct {
	ID        int64
	Input     string
	SplitAt   int
	KeepSkirt bool

	FirstPath    string
	SecondPath   string
	FirstLayers  string // e.g. "0..3", "none"
	SecondLayers string

	Lines    int
	Segments int

	CreatedAt time.Time
}

// DB wraps the history database.
type DB struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS splits (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	input         TEXT NOT NULL,
	split_at      INTEGER NOT NULL,
	keep_skirt    INTEGER NOT NULL DEFAULT 0,
	first_path    TEXT NOT NULL,
	second_path   TEXT NOT NULL,
	first_layers  TEXT NOT NULL,
	second_layers TEXT NOT NULL,
	lines         INTEGER NOT NULL,
	segments      INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);`

// Open opens (or creates) the history database under stateDir.
func Open(stateDir string) (*DB, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	path := filepath.Join(stateDir, "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record inserts one entry. CreatedAt defaults to now when unset.
func (d *DB) Record(e Entry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := d.db.Exec(`
		INSERT INTO splits (input, split_at, keep_skirt, first_path, second_path,
			first_layers, second_layers, lines, segments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Input, e.SplitAt, boolToInt(e.KeepSkirt), e.FirstPath, e.SecondPath,
		e.FirstLayers, e.SecondLayers, e.Lines, e.Segments,
		createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record split: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT id, input, split_at, keep_skirt, first_path, second_path,
			first_layers, second_layers, lines, segments, created_at
		FROM splits ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var keepSkirt int
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Input, &e.SplitAt, &keepSkirt,
			&e.FirstPath, &e.SecondPath, &e.FirstLayers, &e.SecondLayers,
			&e.Lines, &e.Segments, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.KeepSkirt = keepSkirt != 0
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Format renders entries as aligned terminal output.
func Format(entries []Entry) string {
	if len(entries) == 0 {
		return "no splits recorded yet\n"
	}

	var b strings.Builder
	for _, e := range entries {
		flags := ""
		if e.KeepSkirt {
			flags = " --keep-skirt"
		}
		fmt.Fprintf(&b, "%s  %s -s %d%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(e.Input), e.SplitAt, flags)
		fmt.Fprintf(&b, "  %-8s %s (layers %s)\n", "first", e.FirstPath, e.FirstLayers)
		fmt.Fprintf(&b, "  %-8s %s (layers %s)\n", "second", e.SecondPath, e.SecondLayers)
	}
	return b.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
