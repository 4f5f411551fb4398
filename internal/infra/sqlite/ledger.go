package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emberfocus/ember/internal/domain"
)

// ─── Award Event Ledger ─────────────────────────────────────────────────────

// CommitAwards appends award event rows and increments the user's balance
// by the batch sum inside one transaction. Rows and the balance update
// succeed or fail together — a partial commit would break the invariant
// that the balance equals the sum of persisted event points.
func (d *DB) CommitAwards(ctx context.Context, userID uuid.UUID, events []domain.AwardEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var sum int64
	for _, e := range events {
		meta := sql.NullString{}
		if len(e.Meta) > 0 {
			raw, err := json.Marshal(e.Meta)
			if err != nil {
				return fmt.Errorf("encode meta for %s: %w", e.EventKey, err)
			}
			meta = sql.NullString{String: string(raw), Valid: true}
		}

		actionID := sql.NullString{}
		if e.ActionID != uuid.Nil {
			actionID = sql.NullString{String: e.ActionID.String(), Valid: true}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO award_events (user_id, action_id, event_key, points, meta, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			userID.String(), actionID, e.EventKey, e.Points, meta, e.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", e.EventKey, err)
		}
		sum += e.Points
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + ? WHERE id = ?`,
		sum, userID.String(),
	)
	if err != nil {
		return fmt.Errorf("increment balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}

	return tx.Commit()
}

// AwardEvents returns the user's most recent award events, newest first.
func (d *DB) AwardEvents(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AwardEvent, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, action_id, event_key, points, meta, created_at
		 FROM award_events WHERE user_id = ?
		 ORDER BY id DESC LIMIT ?`,
		userID.String(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AwardEvent
	for rows.Next() {
		var e domain.AwardEvent
		var actionID, meta sql.NullString
		var createdAt int64

		if err := rows.Scan(&e.ID, &actionID, &e.EventKey, &e.Points, &meta, &createdAt); err != nil {
			return nil, err
		}
		e.UserID = userID
		e.CreatedAt = time.Unix(createdAt, 0)
		if actionID.Valid {
			e.ActionID, _ = uuid.Parse(actionID.String)
		}
		if meta.Valid {
			if err := json.Unmarshal([]byte(meta.String), &e.Meta); err != nil {
				return nil, fmt.Errorf("decode meta for event %d: %w", e.ID, err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SumAwardPoints returns the lifetime sum of the user's event points.
// Used by the health checker to verify ledger consistency.
func (d *DB) SumAwardPoints(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := d.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM award_events WHERE user_id = ?`,
		userID.String(),
	).Scan(&sum)
	return sum, err
}

// LedgerDrift returns the number of users whose balance disagrees with
// the sum of their award events. Zero on a healthy ledger.
func (d *DB) LedgerDrift(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users u
		 WHERE u.balance != (SELECT COALESCE(SUM(points), 0)
		                     FROM award_events e WHERE e.user_id = u.id)`,
	).Scan(&n)
	return n, err
}
