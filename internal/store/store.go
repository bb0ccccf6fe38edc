package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// timeLayout is fixed-width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the key format of daily metrics.
const DateLayout = "2006-01-02"

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("store: not found")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  querier
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, q: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
// Calling InTx on a store that is already bound to a transaction reuses it.
func (s *Store) InTx(fn func(tx *Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		completed   INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);

	CREATE TABLE IF NOT EXISTS messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		type       TEXT NOT NULL CHECK (type IN ('user', 'ai')),
		content    TEXT NOT NULL,
		timestamp  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);

	CREATE TABLE IF NOT EXISTS mood_sessions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		emotions   TEXT NOT NULL DEFAULT '[]',
		summary    TEXT,
		timestamp  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mood_sessions_timestamp ON mood_sessions(timestamp);

	CREATE TABLE IF NOT EXISTS daily_metrics (
		date          TEXT PRIMARY KEY,
		water_intake  INTEGER NOT NULL DEFAULT 0 CHECK (water_intake >= 0)
	);

	CREATE TABLE IF NOT EXISTS pomodoro_history (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pomodoro_history_timestamp ON pomodoro_history(timestamp);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

// DefaultDBPath returns ~/.config/matcha/matcha.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "matcha", "matcha.db"), nil
}
