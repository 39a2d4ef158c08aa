// Package sqlite provides SQLite-based persistent storage for FitProof.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// dayFormat is the canonical calendar-day column format.
const dayFormat = "2006-01-02"

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Submission history. target_date is the day the record counts
		// toward; NULL keeps the row out of every date-keyed computation.
		// The unique index backs the one-record-per-(user, date, kind)
		// invariant, including the at-most-one-shield-per-day guarantee.
		`CREATE TABLE IF NOT EXISTS submissions (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			target_date TEXT,
			status      TEXT NOT NULL DEFAULT '',
			kind        TEXT NOT NULL,
			is_revival  BOOLEAN NOT NULL DEFAULT 0,
			reps        INTEGER NOT NULL DEFAULT 0,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_user_date_kind
			ON submissions(user_id, target_date, kind) WHERE target_date IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_user ON submissions(user_id)`,

		// Cached derived aggregates, refreshed by the engine.
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id        TEXT PRIMARY KEY,
			current_streak INTEGER NOT NULL DEFAULT 0,
			perfect_weeks  INTEGER NOT NULL DEFAULT 0,
			shield_stock   INTEGER NOT NULL DEFAULT 0,
			shields_used   INTEGER NOT NULL DEFAULT 0,
			revival_count  INTEGER NOT NULL DEFAULT 0,
			total_days     INTEGER NOT NULL DEFAULT 0,
			total_reps     INTEGER NOT NULL DEFAULT 0,
			updated_at     INTEGER NOT NULL
		)`,

		// Scoped rest-day rules (daily > weekly > monthly).
		`CREATE TABLE IF NOT EXISTS rules (
			id             TEXT PRIMARY KEY,
			scope          TEXT NOT NULL,
			date           TEXT,
			weekday        INTEGER,
			day_of_month   INTEGER,
			rest_day       BOOLEAN NOT NULL DEFAULT 0,
			effective_from TEXT NOT NULL,
			effective_to   TEXT
		)`,

		// Weekly quota groups.
		`CREATE TABLE IF NOT EXISTS group_configs (
			id             TEXT PRIMARY KEY,
			days_of_week   TEXT NOT NULL,
			required_count INTEGER NOT NULL,
			effective_from TEXT NOT NULL,
			effective_to   TEXT
		)`,

		// Key-value store for engine settings (shield condition, flags).
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullableDay(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dayFormat), Valid: true}
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayFormat, s)
}

func parseNullableDay(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseDay(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
