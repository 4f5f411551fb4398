package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emberfocus/ember/internal/domain"
)

// ─── Activity Recording ─────────────────────────────────────────────────────

// InsertFocusSession records a completed focus session and its category
// associations in one transaction.
func (d *DB) InsertFocusSession(ctx context.Context, s domain.FocusCompletion) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO focus_sessions (id, user_id, project, duration_seconds, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID.String(), s.UserID.String(), s.Scopes.Project, s.DurationSec, s.CompletedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, cat := range s.Scopes.Categories {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO session_categories (session_id, category) VALUES (?, ?)`,
			s.ID.String(), cat,
		)
		if err != nil {
			return fmt.Errorf("insert category %q: %w", cat, err)
		}
	}

	return tx.Commit()
}

// InsertTaskCompletion records a completed task.
func (d *DB) InsertTaskCompletion(ctx context.Context, t domain.TaskCompletion) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO task_completions (id, user_id, completed_at) VALUES (?, ?, ?)`,
		t.ID.String(), t.UserID.String(), t.CompletedAt.Unix(),
	)
	return err
}

// ─── Aggregate Queries ──────────────────────────────────────────────────────
// The award calculator never touches storage; these queries assemble the
// read-only snapshot it consumes. Scope hints limit per-scope queries to
// the scopes of the triggering action.

// AggregateSnapshot assembles the aggregate bundle for one user. The day
// window bounds "today"; scope hints select which per-scope totals to load.
func (d *DB) AggregateSnapshot(ctx context.Context, userID uuid.UUID, scopes domain.ScopeSet, day domain.Window) (domain.AggregateSnapshot, error) {
	var snap domain.AggregateSnapshot
	uid := userID.String()

	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM focus_sessions
		 WHERE user_id = ? AND completed_at >= ? AND completed_at < ?`,
		uid, day.Start.Unix(), day.End.Unix(),
	).Scan(&snap.TodayCount)
	if err != nil {
		return snap, fmt.Errorf("today count: %w", err)
	}

	err = d.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0)
		 FROM focus_sessions WHERE user_id = ?`,
		uid,
	).Scan(&snap.TotalCount, &snap.TotalDurationSec)
	if err != nil {
		return snap, fmt.Errorf("totals: %w", err)
	}

	if scopes.Project != "" {
		var t domain.ScopeTotals
		err = d.db.QueryRowContext(ctx,
			`SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0)
			 FROM focus_sessions WHERE user_id = ? AND project = ?`,
			uid, scopes.Project,
		).Scan(&t.Count, &t.DurationSec)
		if err != nil {
			return snap, fmt.Errorf("project totals: %w", err)
		}
		snap.Project = &t
	}

	if len(scopes.Categories) > 0 {
		snap.Categories = make(map[string]domain.ScopeTotals, len(scopes.Categories))
		for _, cat := range scopes.Categories {
			var t domain.ScopeTotals
			err = d.db.QueryRowContext(ctx,
				`SELECT COUNT(*), COALESCE(SUM(f.duration_seconds), 0)
				 FROM focus_sessions f
				 JOIN session_categories c ON c.session_id = f.id
				 WHERE f.user_id = ? AND c.category = ?`,
				uid, cat,
			).Scan(&t.Count, &t.DurationSec)
			if err != nil {
				return snap, fmt.Errorf("category %q totals: %w", cat, err)
			}
			snap.Categories[cat] = t
		}
	}

	return snap, nil
}

// ActivityDates returns the distinct calendar days (server-local) on
// which the user completed at least one focus session, descending.
func (d *DB) ActivityDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT DISTINCT date(completed_at, 'unixepoch', 'localtime')
		 FROM focus_sessions WHERE user_id = ? ORDER BY 1 DESC`,
		userID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse activity date %q: %w", s, err)
		}
		dates = append(dates, day)
	}
	return dates, rows.Err()
}

// TaskCountInWindow counts the user's tasks completed within a window.
func (d *DB) TaskCountInWindow(ctx context.Context, userID uuid.UUID, w domain.Window) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_completions
		 WHERE user_id = ? AND completed_at >= ? AND completed_at < ?`,
		userID.String(), w.Start.Unix(), w.End.Unix(),
	).Scan(&n)
	return n, err
}

// FocusCountInWindow counts the user's sessions completed within a window.
func (d *DB) FocusCountInWindow(ctx context.Context, userID uuid.UUID, w domain.Window) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM focus_sessions
		 WHERE user_id = ? AND completed_at >= ? AND completed_at < ?`,
		userID.String(), w.Start.Unix(), w.End.Unix(),
	).Scan(&n)
	return n, err
}
