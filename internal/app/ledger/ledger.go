// Package ledger implements the award event ledger. Every granted award
// becomes one immutable event row, and the user's cumulative balance is
// incremented atomically with the batch. The balance must always equal
// the sum of the user's persisted event points.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emberfocus/ember/internal/domain"
	"github.com/emberfocus/ember/internal/infra/metrics"
	"github.com/emberfocus/ember/internal/infra/sqlite"
)

// Service manages the append-only award ledger.
type Service struct {
	db *sqlite.DB
}

// NewService creates a ledger service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Commit persists one batch of awards for a user. The award variants are
// flattened to event rows (key, points, meta) at this boundary. Empty
// batches are a no-op. The whole batch commits or none of it does.
func (s *Service) Commit(ctx context.Context, userID uuid.UUID, awards []domain.Award, actionID uuid.UUID) ([]domain.AwardEvent, error) {
	if len(awards) == 0 {
		return nil, nil
	}

	now := time.Now()
	events := make([]domain.AwardEvent, len(awards))
	for i, a := range awards {
		events[i] = domain.AwardEvent{
			UserID:    userID,
			ActionID:  actionID,
			EventKey:  a.EventKey(),
			Points:    a.Points,
			Meta:      a.Meta(),
			CreatedAt: now,
		}
	}

	if err := s.db.CommitAwards(ctx, userID, events); err != nil {
		metrics.LedgerCommitFailures.Inc()
		return nil, fmt.Errorf("commit awards: %w", err)
	}

	for _, a := range awards {
		metrics.AwardsGranted.WithLabelValues(string(a.Kind)).Inc()
		metrics.PointsGranted.Add(float64(a.Points))
	}

	return events, nil
}

// History returns the user's most recent award events, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AwardEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.db.AwardEvents(ctx, userID, limit)
}

// Balance returns the user's cumulative balance.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	u, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Balance, nil
}
