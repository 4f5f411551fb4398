// Package domain holds the pure types of the Ember reward engine:
// activity facts, aggregate snapshots, awards, and the rule catalog.
// Domain types carry no infrastructure dependency.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an actor with a cumulative point balance.
// The balance is mutated only through the event ledger and never
// decremented by this subsystem.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// ScopeSet names the optional project and categories an action belongs to.
type ScopeSet struct {
	Project    string   `json:"project,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// FocusCompletion is the immutable fact of one finished focus session.
type FocusCompletion struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Scopes      ScopeSet  `json:"scopes"`
	DurationSec int64     `json:"duration_seconds"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletion is the immutable fact of one finished task.
type TaskCompletion struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// ScopeTotals are the lifetime aggregates for a single project or category.
type ScopeTotals struct {
	Count       int   `json:"count"`
	DurationSec int64 `json:"duration_seconds"`
}

// AggregateSnapshot is the read-only bundle of numbers one award
// calculation consumes. It must reflect state AFTER the triggering
// action is durably recorded, so counts and sums include it.
// Never persisted.
type AggregateSnapshot struct {
	TodayCount       int                    `json:"today_count"`
	TotalCount       int                    `json:"total_count"`
	TotalDurationSec int64                  `json:"total_duration_seconds"`
	Project          *ScopeTotals           `json:"project,omitempty"` // nil when the action has no project
	Categories       map[string]ScopeTotals `json:"categories,omitempty"`
}

// StreakInfo is the derived current/best consecutive-day streak.
// Computed on demand from distinct activity dates, never persisted.
type StreakInfo struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}
