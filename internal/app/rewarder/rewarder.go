// Package rewarder orchestrates the full award flow for one completed
// action: record the fact, snapshot aggregates, derive the streak, run
// the calculator, commit the batch through the ledger. The whole
// sequence is serialized per user — milestone rules are read-then-write
// and two interleaved completions could otherwise double-fire or skip a
// one-time threshold.
package rewarder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/emberfocus/ember/internal/app/award"
	"github.com/emberfocus/ember/internal/app/ledger"
	"github.com/emberfocus/ember/internal/app/streak"
	"github.com/emberfocus/ember/internal/domain"
	"github.com/emberfocus/ember/internal/infra/metrics"
	"github.com/emberfocus/ember/internal/infra/sqlite"
)

// Service is the engine's entry point for the surrounding application.
type Service struct {
	db      *sqlite.DB
	ledger  *ledger.Service
	catalog domain.RuleCatalog
	locks   userLocks
	rng     *rand.Rand
	now     func() time.Time
}

// NewService creates a rewarder with a validated catalog.
func NewService(db *sqlite.DB, led *ledger.Service, cat domain.RuleCatalog) (*Service, error) {
	if err := award.ValidateCatalog(cat); err != nil {
		return nil, err
	}
	return &Service{
		db:      db,
		ledger:  led,
		catalog: cat,
		rng:     rand.New(newLockedSource(time.Now().UnixNano())),
		now:     time.Now,
	}, nil
}

// SetRand replaces the random source. Test hook for reproducible
// random-reward trials.
func (s *Service) SetRand(rng *rand.Rand) { s.rng = rng }

// SetClock replaces the time source. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Catalog returns the active rule catalog.
func (s *Service) Catalog() domain.RuleCatalog { return s.catalog }

// RecordFocusCompletion persists a completed focus session and awards
// points for it. Returns the recorded action and the committed events.
func (s *Service) RecordFocusCompletion(ctx context.Context, userID uuid.UUID, scopes domain.ScopeSet, durationSec int64) (domain.FocusCompletion, []domain.AwardEvent, error) {
	var action domain.FocusCompletion

	if durationSec <= 0 {
		return action, nil, fmt.Errorf("%w: duration must be positive, got %d", domain.ErrInvalidAction, durationSec)
	}
	if _, err := s.db.GetUser(ctx, userID); err != nil {
		return action, nil, err
	}

	// Serialize record → snapshot → calculate → commit per user, so the
	// snapshot another completion reads always reflects a fully
	// committed state.
	unlock := s.locks.lock(userID)
	defer unlock()

	now := s.now()
	action = domain.FocusCompletion{
		ID:          uuid.New(),
		UserID:      userID,
		Scopes:      scopes,
		DurationSec: durationSec,
		CompletedAt: now,
	}
	if err := s.db.InsertFocusSession(ctx, action); err != nil {
		return action, nil, fmt.Errorf("record session: %w", err)
	}
	metrics.FocusCompletions.Inc()

	// Aggregates now include the just-recorded action.
	snap, err := s.db.AggregateSnapshot(ctx, userID, scopes, domain.DayWindow(now))
	if err != nil {
		return action, nil, fmt.Errorf("aggregate snapshot: %w", err)
	}

	dates, err := s.db.ActivityDates(ctx, userID)
	if err != nil {
		return action, nil, fmt.Errorf("activity dates: %w", err)
	}
	streakInfo := streak.Compute(dates, now)

	awards, err := award.CalculateFocus(action, snap, streakInfo.Current, s.catalog, s.rng)
	if err != nil {
		return action, nil, err
	}

	events, err := s.ledger.Commit(ctx, userID, awards, action.ID)
	if err != nil {
		return action, nil, err
	}
	return action, events, nil
}

// RecordTaskCompletion persists a completed task and awards any daily
// task bonuses whose threshold the day's count landed on.
func (s *Service) RecordTaskCompletion(ctx context.Context, userID uuid.UUID) (domain.TaskCompletion, []domain.AwardEvent, error) {
	var action domain.TaskCompletion

	if _, err := s.db.GetUser(ctx, userID); err != nil {
		return action, nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	now := s.now()
	action = domain.TaskCompletion{
		ID:          uuid.New(),
		UserID:      userID,
		CompletedAt: now,
	}
	if err := s.db.InsertTaskCompletion(ctx, action); err != nil {
		return action, nil, fmt.Errorf("record task: %w", err)
	}
	metrics.TaskCompletions.Inc()

	count, err := s.db.TaskCountInWindow(ctx, userID, domain.DayWindow(now))
	if err != nil {
		return action, nil, fmt.Errorf("task count: %w", err)
	}

	awards := award.CalculateTask(count, s.catalog)
	events, err := s.ledger.Commit(ctx, userID, awards, action.ID)
	if err != nil {
		return action, nil, err
	}
	return action, events, nil
}

// Streak returns the user's current and best consecutive-day streak.
func (s *Service) Streak(ctx context.Context, userID uuid.UUID) (domain.StreakInfo, error) {
	if _, err := s.db.GetUser(ctx, userID); err != nil {
		return domain.StreakInfo{}, err
	}
	dates, err := s.db.ActivityDates(ctx, userID)
	if err != nil {
		return domain.StreakInfo{}, fmt.Errorf("activity dates: %w", err)
	}
	return streak.Compute(dates, s.now()), nil
}

// Summary bundles a user's balance, streak, and today's activity.
type Summary struct {
	User       domain.User       `json:"user"`
	Streak     domain.StreakInfo `json:"streak"`
	TodayFocus int               `json:"today_focus_completions"`
	TodayTasks int               `json:"today_task_completions"`
}

// Summarize returns the combined stats view for one user.
func (s *Service) Summarize(ctx context.Context, userID uuid.UUID) (Summary, error) {
	var sum Summary

	u, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return sum, err
	}
	sum.User = *u

	dates, err := s.db.ActivityDates(ctx, userID)
	if err != nil {
		return sum, fmt.Errorf("activity dates: %w", err)
	}
	now := s.now()
	sum.Streak = streak.Compute(dates, now)

	day := domain.DayWindow(now)
	if sum.TodayFocus, err = s.db.FocusCountInWindow(ctx, userID, day); err != nil {
		return sum, fmt.Errorf("today focus count: %w", err)
	}
	if sum.TodayTasks, err = s.db.TaskCountInWindow(ctx, userID, day); err != nil {
		return sum, fmt.Errorf("today task count: %w", err)
	}
	return sum, nil
}
