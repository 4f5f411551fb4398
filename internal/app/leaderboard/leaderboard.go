// Package leaderboard ranks users by completions within a calendar
// window. Read-only — it runs concurrently with award calculation and
// needs no locking beyond the data source's own consistency.
package leaderboard

import (
	"context"
	"time"

	"github.com/emberfocus/ember/internal/domain"
	"github.com/emberfocus/ember/internal/infra/sqlite"
)

// DefaultLimit caps leaderboard size when callers pass none.
const DefaultLimit = 20

// Service produces ranked completion lists.
type Service struct {
	db *sqlite.DB
}

// NewService creates a leaderboard service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Rank returns users ordered by completions in the window, descending,
// truncated to limit. Ties break on user ID ascending — ordering is
// deterministic for a fixed data set.
func (s *Service) Rank(ctx context.Context, w domain.Window, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultLimit
	}
	return s.db.Leaderboard(ctx, w, limit)
}

// Week ranks over the current calendar week.
func (s *Service) Week(ctx context.Context, now time.Time, limit int) ([]domain.LeaderboardEntry, error) {
	return s.Rank(ctx, domain.WeekWindow(now), limit)
}

// Month ranks over the current calendar month.
func (s *Service) Month(ctx context.Context, now time.Time, limit int) ([]domain.LeaderboardEntry, error) {
	return s.Rank(ctx, domain.MonthWindow(now), limit)
}
