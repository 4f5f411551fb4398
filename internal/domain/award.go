package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ─── Award Variants ─────────────────────────────────────────────────────────

// AwardKind tags which rule produced an award.
type AwardKind string

const (
	KindBase              AwardKind = "base"
	KindDailyFixed        AwardKind = "daily_fixed"
	KindDailyScaling      AwardKind = "daily_scaling"
	KindStreak            AwardKind = "streak"
	KindCountMilestone    AwardKind = "count_milestone"
	KindDurationMilestone AwardKind = "duration_milestone"
	KindRandom            AwardKind = "random"
	KindTaskDaily         AwardKind = "task_daily"
)

// MilestoneScope distinguishes global milestones from scoped ones.
type MilestoneScope string

const (
	ScopeTotal    MilestoneScope = "total"
	ScopeProject  MilestoneScope = "project"
	ScopeCategory MilestoneScope = "category"
)

// Award is one unit of points produced by a single fired rule.
// Each kind uses only the fields relevant to it; the event key and
// metadata are derived at the persistence boundary.
type Award struct {
	Kind   AwardKind `json:"kind"`
	Points int64     `json:"points"`

	Ordinal    int            `json:"ordinal,omitempty"`     // daily fixed / scaling bonuses
	StreakDays int            `json:"streak_days,omitempty"` // streak bonus
	Scope      MilestoneScope `json:"scope,omitempty"`       // milestones
	ScopeName  string         `json:"scope_name,omitempty"`  // project/category name
	Threshold  int            `json:"threshold,omitempty"`   // count milestones, task bonuses
	Hours      int            `json:"hours,omitempty"`       // duration milestones
}

// EventKey returns the stable string identifying the rule instance that
// fired. Milestone keys embed the threshold, so the at-most-once guarantee
// holds per (user, key) pair.
func (a Award) EventKey() string {
	switch a.Kind {
	case KindBase:
		return "base"
	case KindDailyFixed:
		if a.Ordinal == 1 {
			return "daily_first"
		}
		return fmt.Sprintf("daily_%dth", a.Ordinal)
	case KindDailyScaling:
		return "daily_scaling"
	case KindStreak:
		return "streak_bonus"
	case KindCountMilestone:
		switch a.Scope {
		case ScopeProject:
			return fmt.Sprintf("milestone_project_%d", a.Threshold)
		case ScopeCategory:
			return fmt.Sprintf("milestone_category_%d", a.Threshold)
		default:
			return fmt.Sprintf("milestone_total_%d", a.Threshold)
		}
	case KindDurationMilestone:
		switch a.Scope {
		case ScopeProject:
			return fmt.Sprintf("milestone_project_hours_%d", a.Hours)
		case ScopeCategory:
			return fmt.Sprintf("milestone_category_hours_%d", a.Hours)
		default:
			return fmt.Sprintf("milestone_hours_%d", a.Hours)
		}
	case KindRandom:
		return "random_reward"
	case KindTaskDaily:
		return fmt.Sprintf("task_daily_%d", a.Threshold)
	}
	return string(a.Kind)
}

// Meta returns the metadata carried alongside the event, or nil when the
// kind has none.
func (a Award) Meta() map[string]string {
	m := map[string]string{}
	switch a.Kind {
	case KindDailyFixed, KindDailyScaling:
		m["ordinal"] = strconv.Itoa(a.Ordinal)
	case KindStreak:
		m["streak_days"] = strconv.Itoa(a.StreakDays)
	case KindCountMilestone:
		m["threshold"] = strconv.Itoa(a.Threshold)
	case KindDurationMilestone:
		m["hours"] = strconv.Itoa(a.Hours)
	}
	if a.ScopeName != "" {
		m["scope"] = a.ScopeName
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// TotalPoints sums the points of a batch of awards.
func TotalPoints(awards []Award) int64 {
	var sum int64
	for _, a := range awards {
		sum += a.Points
	}
	return sum
}

// ─── Persisted Events ───────────────────────────────────────────────────────

// AwardEvent is the append-only ledger row for one granted award.
// Rows are never updated or deleted.
type AwardEvent struct {
	ID        int64             `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	ActionID  uuid.UUID         `json:"action_id,omitempty"` // uuid.Nil when not linked to an action
	EventKey  string            `json:"event_key"`
	Points    int64             `json:"points"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
