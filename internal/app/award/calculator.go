// Package award implements the award calculation engine: a pure,
// side-effect-free evaluation of the layered rule set against one
// completed action. Persistence belongs to the caller (the event
// ledger); randomness is injected so trials are reproducible.
package award

import (
	"fmt"
	"math/rand"

	"github.com/emberfocus/ember/internal/domain"
)

// CalculateFocus evaluates all focus-session rules for one completed
// session in fixed order and returns the awards that fired. A single
// action may trigger many rules; rules are independent of each other.
//
// The snapshot must reflect state AFTER the action was durably recorded,
// so today/total counts and duration sums already include it. The streak
// length must likewise be evaluated as of after the action.
func CalculateFocus(action domain.FocusCompletion, snap domain.AggregateSnapshot, streakDays int, cat domain.RuleCatalog, rng *rand.Rand) ([]domain.Award, error) {
	if err := checkSnapshot(action, snap); err != nil {
		return nil, err
	}

	var awards []domain.Award

	// Rule 1: base award — always fires.
	awards = append(awards, domain.Award{Kind: domain.KindBase, Points: cat.BasePoints})

	// Rule 2: fixed daily-count bonuses, exact ordinal match.
	if snap.TodayCount == 1 && cat.DailyFirstPoints > 0 {
		awards = append(awards, domain.Award{
			Kind:    domain.KindDailyFixed,
			Points:  cat.DailyFirstPoints,
			Ordinal: 1,
		})
	}
	for _, b := range cat.DailyOrdinals {
		if snap.TodayCount == b.Ordinal {
			awards = append(awards, domain.Award{
				Kind:    domain.KindDailyFixed,
				Points:  b.Points,
				Ordinal: b.Ordinal,
			})
		}
	}

	// Rule 3: scaling daily bonus. May co-fire with rule 2 when the
	// ordinals coincide; overlap is intentionally not special-cased.
	if cat.ScalingStart > 0 && snap.TodayCount >= cat.ScalingStart {
		steps := int64(snap.TodayCount - cat.ScalingStart)
		awards = append(awards, domain.Award{
			Kind:    domain.KindDailyScaling,
			Points:  cat.ScalingBase + steps*cat.ScalingIncrement,
			Ordinal: snap.TodayCount,
		})
	}

	// Rule 4: streak bonus.
	if cat.MinStreakDays > 0 && streakDays >= cat.MinStreakDays {
		awards = append(awards, domain.Award{
			Kind:       domain.KindStreak,
			Points:     cat.StreakPoints,
			StreakDays: streakDays,
		})
	}

	// Rule 5: all-time count milestones. Exact match — completions move
	// the count in unit steps, so the crossing action lands on the
	// threshold exactly, and it can land there only once.
	for _, m := range cat.CountMilestones {
		if snap.TotalCount == m.Threshold {
			awards = append(awards, domain.Award{
				Kind:      domain.KindCountMilestone,
				Points:    m.Points,
				Scope:     domain.ScopeTotal,
				Threshold: m.Threshold,
			})
		}
	}

	// Rule 6: per-scope count milestones, evaluated independently for
	// the action's project and each of its categories.
	if snap.Project != nil {
		for _, m := range cat.ScopeCountMilestones {
			if snap.Project.Count == m.Threshold {
				awards = append(awards, domain.Award{
					Kind:      domain.KindCountMilestone,
					Points:    m.Points,
					Scope:     domain.ScopeProject,
					ScopeName: action.Scopes.Project,
					Threshold: m.Threshold,
				})
			}
		}
	}
	for _, name := range action.Scopes.Categories {
		totals := snap.Categories[name]
		for _, m := range cat.ScopeCountMilestones {
			if totals.Count == m.Threshold {
				awards = append(awards, domain.Award{
					Kind:      domain.KindCountMilestone,
					Points:    m.Points,
					Scope:     domain.ScopeCategory,
					ScopeName: name,
					Threshold: m.Threshold,
				})
			}
		}
	}

	// Rule 7: all-time duration milestones. Duration increments do not
	// land exactly on thresholds, so this is a crossing test:
	// previous < H <= new, with previous = new - thisAction.duration.
	awards = append(awards, durationCrossings(
		cat.HourMilestones, snap.TotalDurationSec, action.DurationSec,
		domain.ScopeTotal, "",
	)...)

	// Rule 8: per-scope duration milestones, same crossing test.
	if snap.Project != nil {
		awards = append(awards, durationCrossings(
			cat.ScopeHourMilestones, snap.Project.DurationSec, action.DurationSec,
			domain.ScopeProject, action.Scopes.Project,
		)...)
	}
	for _, name := range action.Scopes.Categories {
		awards = append(awards, durationCrossings(
			cat.ScopeHourMilestones, snap.Categories[name].DurationSec, action.DurationSec,
			domain.ScopeCategory, name,
		)...)
	}

	// Rule 9: random reward — Bernoulli trial, uniform payout.
	if rng != nil && cat.Random.Probability > 0 && rng.Float64() < cat.Random.Probability {
		span := cat.Random.MaxPoints - cat.Random.MinPoints + 1
		awards = append(awards, domain.Award{
			Kind:   domain.KindRandom,
			Points: cat.Random.MinPoints + rng.Int63n(span),
		})
	}

	return awards, nil
}

// CalculateTask evaluates the task-completion bonuses: each configured
// threshold fires once, when the day's completed-task count lands on it
// exactly. todayTaskCount includes the just-completed task.
func CalculateTask(todayTaskCount int, cat domain.RuleCatalog) []domain.Award {
	var awards []domain.Award
	for _, b := range cat.TaskDailyBonuses {
		if todayTaskCount == b.Ordinal {
			awards = append(awards, domain.Award{
				Kind:      domain.KindTaskDaily,
				Points:    b.Points,
				Threshold: b.Ordinal,
			})
		}
	}
	return awards
}

// durationCrossings fires every hour milestone the action crossed:
// previousTotal < threshold <= newTotal.
func durationCrossings(milestones []domain.Milestone, newTotalSec, actionSec int64, scope domain.MilestoneScope, scopeName string) []domain.Award {
	prevTotalSec := newTotalSec - actionSec

	var awards []domain.Award
	for _, m := range milestones {
		thresholdSec := int64(m.Threshold) * 3600
		if prevTotalSec < thresholdSec && thresholdSec <= newTotalSec {
			awards = append(awards, domain.Award{
				Kind:      domain.KindDurationMilestone,
				Points:    m.Points,
				Scope:     scope,
				ScopeName: scopeName,
				Hours:     m.Threshold,
			})
		}
	}
	return awards
}

// checkSnapshot rejects inconsistent snapshots. An inconsistent snapshot
// is a programmer error — the calculation aborts with no partial award.
func checkSnapshot(action domain.FocusCompletion, snap domain.AggregateSnapshot) error {
	if action.DurationSec < 0 {
		return fmt.Errorf("%w: negative duration %d", domain.ErrInvalidAction, action.DurationSec)
	}
	if snap.TodayCount < 1 || snap.TotalCount < 1 {
		return fmt.Errorf("%w: counts must include the triggering action (today=%d total=%d)",
			domain.ErrInconsistentSnapshot, snap.TodayCount, snap.TotalCount)
	}
	if snap.TodayCount > snap.TotalCount {
		return fmt.Errorf("%w: today count %d exceeds total %d",
			domain.ErrInconsistentSnapshot, snap.TodayCount, snap.TotalCount)
	}
	if snap.TotalDurationSec < action.DurationSec {
		return fmt.Errorf("%w: total duration %d below action duration %d",
			domain.ErrInconsistentSnapshot, snap.TotalDurationSec, action.DurationSec)
	}
	if action.Scopes.Project != "" && snap.Project == nil {
		return fmt.Errorf("%w: missing project aggregates for %q",
			domain.ErrInconsistentSnapshot, action.Scopes.Project)
	}
	for _, name := range action.Scopes.Categories {
		if _, ok := snap.Categories[name]; !ok {
			return fmt.Errorf("%w: missing category aggregates for %q",
				domain.ErrInconsistentSnapshot, name)
		}
	}
	return nil
}
