package domain

// RuleCatalog is the static, versioned rule configuration: every point
// value and threshold the award calculator consults. Pure data — the
// calculator owns the behavior, and tests inject alternate catalogs.
// Toml tags allow overriding any rule from the config file.
type RuleCatalog struct {
	// Rule 1: fixed points for every completed focus session.
	BasePoints int64 `toml:"base_points"`

	// Rule 2: fixed bonuses when today's completion count lands exactly
	// on an ordinal. The first completion of the day is keyed separately.
	DailyFirstPoints int64          `toml:"daily_first_points"`
	DailyOrdinals    []OrdinalBonus `toml:"daily_ordinals"`

	// Rule 3: once todayCount >= ScalingStart, award
	// ScalingBase + (todayCount - ScalingStart) * ScalingIncrement.
	ScalingStart     int   `toml:"scaling_start"`
	ScalingBase      int64 `toml:"scaling_base"`
	ScalingIncrement int64 `toml:"scaling_increment"`

	// Rule 4: fixed bonus once the consecutive-day streak is long enough.
	MinStreakDays int   `toml:"min_streak_days"`
	StreakPoints  int64 `toml:"streak_points"`

	// Rules 5–6: one-time count milestones, exact-match.
	CountMilestones      []Milestone `toml:"count_milestones"`
	ScopeCountMilestones []Milestone `toml:"scope_count_milestones"`

	// Rules 7–8: one-time duration milestones in hours, crossing-test.
	HourMilestones      []Milestone `toml:"hour_milestones"`
	ScopeHourMilestones []Milestone `toml:"scope_hour_milestones"`

	// Task entry point: bonuses when the day's completed-task count
	// lands exactly on a threshold.
	TaskDailyBonuses []OrdinalBonus `toml:"task_daily_bonuses"`

	// Rule 9: Bernoulli trial, uniform payout in [MinPoints, MaxPoints].
	Random RandomReward `toml:"random"`
}

// Milestone pairs a one-time threshold (count, or hours for duration
// milestones) with its payout.
type Milestone struct {
	Threshold int   `toml:"threshold"`
	Points    int64 `toml:"points"`
}

// OrdinalBonus pairs an exact daily ordinal with its payout.
type OrdinalBonus struct {
	Ordinal int   `toml:"ordinal"`
	Points  int64 `toml:"points"`
}

// RandomReward configures the random-reward rule.
type RandomReward struct {
	Probability float64 `toml:"probability"`
	MinPoints   int64   `toml:"min_points"`
	MaxPoints   int64   `toml:"max_points"`
}

// DefaultRuleCatalog returns the stock rule set.
func DefaultRuleCatalog() RuleCatalog {
	return RuleCatalog{
		BasePoints: 10,

		DailyFirstPoints: 50,
		DailyOrdinals: []OrdinalBonus{
			{Ordinal: 4, Points: 30},
		},

		ScalingStart:     5,
		ScalingBase:      10,
		ScalingIncrement: 2,

		MinStreakDays: 3,
		StreakPoints:  25,

		CountMilestones: []Milestone{
			{Threshold: 10, Points: 50},
			{Threshold: 50, Points: 150},
			{Threshold: 100, Points: 300},
			{Threshold: 500, Points: 1000},
			{Threshold: 1000, Points: 2500},
		},
		ScopeCountMilestones: []Milestone{
			{Threshold: 25, Points: 75},
			{Threshold: 100, Points: 250},
			{Threshold: 500, Points: 1000},
		},

		HourMilestones: []Milestone{
			{Threshold: 10, Points: 100},
			{Threshold: 50, Points: 300},
			{Threshold: 100, Points: 600},
			{Threshold: 500, Points: 2000},
		},
		ScopeHourMilestones: []Milestone{
			{Threshold: 10, Points: 100},
			{Threshold: 50, Points: 300},
			{Threshold: 100, Points: 600},
		},

		TaskDailyBonuses: []OrdinalBonus{
			{Ordinal: 1, Points: 15},
			{Ordinal: 5, Points: 25},
			{Ordinal: 10, Points: 50},
		},

		Random: RandomReward{
			Probability: 0.05,
			MinPoints:   10,
			MaxPoints:   100,
		},
	}
}
