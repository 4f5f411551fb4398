// Package sqlite provides SQLite-based persistent storage for Ember.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/emberfocus/ember/internal/domain"
)

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
		// Actors with their cumulative point balance
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			balance    INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,

		// Completed focus sessions (immutable facts)
		`CREATE TABLE IF NOT EXISTS focus_sessions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL REFERENCES users(id),
			project          TEXT NOT NULL DEFAULT '',
			duration_seconds INTEGER NOT NULL,
			completed_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_time ON focus_sessions(user_id, completed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_project ON focus_sessions(user_id, project)`,

		// Category associations for sessions
		`CREATE TABLE IF NOT EXISTS session_categories (
			session_id TEXT NOT NULL REFERENCES focus_sessions(id),
			category   TEXT NOT NULL,
			PRIMARY KEY (session_id, category)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_cat ON session_categories(category)`,

		// Completed tasks (immutable facts)
		`CREATE TABLE IF NOT EXISTS task_completions (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id),
			completed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_time ON task_completions(user_id, completed_at)`,

		// Append-only award event ledger
		`CREATE TABLE IF NOT EXISTS award_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL REFERENCES users(id),
			action_id  TEXT,
			event_key  TEXT NOT NULL,
			points     INTEGER NOT NULL,
			meta       TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_awards_user_time ON award_events(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_awards_user_key ON award_events(user_id, event_key)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── User Repository ────────────────────────────────────────────────────────

// CreateUser inserts a new user with a zero balance.
func (d *DB) CreateUser(ctx context.Context, u domain.User) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO users (id, name, balance, created_at) VALUES (?, ?, 0, ?)`,
		u.ID.String(), u.Name, u.CreatedAt.Unix(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return domain.ErrUserExists
	}
	return err
}

// GetUser retrieves a user by ID.
func (d *DB) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	var rawID string
	var createdAt int64

	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, balance, created_at FROM users WHERE id = ?`, id.String(),
	).Scan(&rawID, &u.Name, &u.Balance, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	return &u, nil
}
