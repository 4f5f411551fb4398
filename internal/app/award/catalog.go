package award

import (
	"fmt"

	"github.com/emberfocus/ember/internal/domain"
)

// ValidateCatalog checks a rule catalog for configuration errors.
// Called once at daemon startup — a malformed catalog must never reach
// per-request calculation.
func ValidateCatalog(cat domain.RuleCatalog) error {
	if cat.BasePoints <= 0 {
		return fmt.Errorf("%w: base_points must be positive, got %d", domain.ErrInvalidCatalog, cat.BasePoints)
	}
	if cat.ScalingStart < 0 || cat.ScalingBase < 0 || cat.ScalingIncrement < 0 {
		return fmt.Errorf("%w: scaling parameters must be non-negative", domain.ErrInvalidCatalog)
	}
	if cat.MinStreakDays < 0 || cat.StreakPoints < 0 {
		return fmt.Errorf("%w: streak parameters must be non-negative", domain.ErrInvalidCatalog)
	}

	for _, set := range []struct {
		name string
		ms   []domain.Milestone
	}{
		{"count_milestones", cat.CountMilestones},
		{"scope_count_milestones", cat.ScopeCountMilestones},
		{"hour_milestones", cat.HourMilestones},
		{"scope_hour_milestones", cat.ScopeHourMilestones},
	} {
		if err := checkMilestones(set.name, set.ms); err != nil {
			return err
		}
	}

	if err := checkOrdinals("daily_ordinals", cat.DailyOrdinals); err != nil {
		return err
	}
	if len(cat.DailyOrdinals) > 0 && cat.DailyOrdinals[0].Ordinal == 1 {
		// The first completion of the day is keyed daily_first.
		return fmt.Errorf("%w: daily_ordinals must not contain ordinal 1, use daily_first_points", domain.ErrInvalidCatalog)
	}
	if err := checkOrdinals("task_daily_bonuses", cat.TaskDailyBonuses); err != nil {
		return err
	}

	r := cat.Random
	if r.Probability < 0 || r.Probability > 1 {
		return fmt.Errorf("%w: random probability %g outside [0,1]", domain.ErrInvalidCatalog, r.Probability)
	}
	if r.Probability > 0 {
		if r.MinPoints <= 0 {
			return fmt.Errorf("%w: random min_points must be positive, got %d", domain.ErrInvalidCatalog, r.MinPoints)
		}
		if r.MaxPoints < r.MinPoints {
			return fmt.Errorf("%w: random max_points %d below min_points %d", domain.ErrInvalidCatalog, r.MaxPoints, r.MinPoints)
		}
	}

	return nil
}

// checkMilestones requires strictly increasing thresholds and positive
// payouts. Monotonic thresholds keep milestone keys unambiguous.
func checkMilestones(name string, ms []domain.Milestone) error {
	prev := 0
	for _, m := range ms {
		if m.Threshold <= prev {
			return fmt.Errorf("%w: %s thresholds must be strictly increasing (%d after %d)",
				domain.ErrInvalidCatalog, name, m.Threshold, prev)
		}
		if m.Points <= 0 {
			return fmt.Errorf("%w: %s threshold %d has non-positive points %d",
				domain.ErrInvalidCatalog, name, m.Threshold, m.Points)
		}
		prev = m.Threshold
	}
	return nil
}

func checkOrdinals(name string, bs []domain.OrdinalBonus) error {
	prev := 0
	for _, b := range bs {
		if b.Ordinal <= prev {
			return fmt.Errorf("%w: %s ordinals must be strictly increasing (%d after %d)",
				domain.ErrInvalidCatalog, name, b.Ordinal, prev)
		}
		if b.Points <= 0 {
			return fmt.Errorf("%w: %s ordinal %d has non-positive points %d",
				domain.ErrInvalidCatalog, name, b.Ordinal, b.Points)
		}
		prev = b.Ordinal
	}
	return nil
}
