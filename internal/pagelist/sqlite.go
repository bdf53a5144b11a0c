package pagelist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"braces.dev/errtrace"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const _schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteStore is a [Store] backed by a SQLite database.
//
// Settings are kept in a key-value table,
// with the list JSON-encoded under [Key].
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errtrace.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errtrace.Errorf("open database: %w", err)
	}
	return newSQLiteStore(db)
}

// OpenMemory opens an in-memory database.
// Its contents are lost when it's closed.
func OpenMemory() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errtrace.Errorf("open in-memory database: %w", err)
	}
	// Every connection gets its own in-memory database.
	db.SetMaxOpenConns(1)
	return newSQLiteStore(db)
}

func newSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(_schema); err != nil {
		return nil, errors.Join(
			errtrace.Errorf("migrate: %w", err),
			db.Close(),
		)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return errtrace.Wrap(s.db.Close())
}

// DisabledPages reads the list of disabled entries.
func (s *SQLiteStore) DisabledPages(ctx context.Context) ([]string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, Key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errtrace.Errorf("read %v: %w", Key, err)
	}

	var entries []string
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		return nil, errtrace.Errorf("decode %v: %w", Key, err)
	}
	return entries, nil
}

// SetDisabledPages replaces the list of disabled entries.
func (s *SQLiteStore) SetDisabledPages(ctx context.Context, entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	value, err := json.Marshal(entries)
	if err != nil {
		return errtrace.Wrap(err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		Key, string(value),
	)
	if err != nil {
		return errtrace.Errorf("write %v: %w", Key, err)
	}
	return nil
}
