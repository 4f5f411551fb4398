package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberfocus/ember/internal/domain"
)

// Leaderboard ranks users by focus completions within the window, joined
// with their cumulative balance. Ties break on user ID ascending so two
// runs over the same data produce identical ordering.
func (d *DB) Leaderboard(ctx context.Context, w domain.Window, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.balance, COUNT(f.id) AS completions
		 FROM users u
		 JOIN focus_sessions f ON f.user_id = u.id
		   AND f.completed_at >= ? AND f.completed_at < ?
		 GROUP BY u.id, u.name, u.balance
		 ORDER BY completions DESC, u.id ASC
		 LIMIT ?`,
		w.Start.Unix(), w.End.Unix(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		var rawID string
		if err := rows.Scan(&rawID, &e.Name, &e.Balance, &e.Completions); err != nil {
			return nil, err
		}
		e.UserID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse user id: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
