package award

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/emberfocus/ember/internal/domain"
)

// testCatalog returns the default rules with the random reward disabled,
// so calculations are deterministic unless a test opts back in.
func testCatalog() domain.RuleCatalog {
	cat := domain.DefaultRuleCatalog()
	cat.Random.Probability = 0
	return cat
}

func plainAction(durationSec int64) domain.FocusCompletion {
	return domain.FocusCompletion{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		DurationSec: durationSec,
	}
}

// plainSnapshot is a consistent snapshot with no scopes and counts that
// trigger nothing beyond the base award.
func plainSnapshot(todayCount, totalCount int, totalDurationSec int64) domain.AggregateSnapshot {
	return domain.AggregateSnapshot{
		TodayCount:       todayCount,
		TotalCount:       totalCount,
		TotalDurationSec: totalDurationSec,
	}
}

func findKind(t *testing.T, awards []domain.Award, kind domain.AwardKind) []domain.Award {
	t.Helper()
	var found []domain.Award
	for _, a := range awards {
		if a.Kind == kind {
			found = append(found, a)
		}
	}
	return found
}

// ─── Rule 1: Base Award ─────────────────────────────────────────────────────

func TestCalculateFocus_BaseAlwaysFires(t *testing.T) {
	cat := testCatalog()
	awards, err := CalculateFocus(plainAction(1500), plainSnapshot(2, 3, 4500), 0, cat, nil)
	if err != nil {
		t.Fatalf("CalculateFocus() error: %v", err)
	}

	base := findKind(t, awards, domain.KindBase)
	if len(base) != 1 {
		t.Fatalf("base awards = %d, want 1", len(base))
	}
	if base[0].Points != cat.BasePoints {
		t.Errorf("base points = %d, want %d", base[0].Points, cat.BasePoints)
	}
	if base[0].EventKey() != "base" {
		t.Errorf("base key = %q, want %q", base[0].EventKey(), "base")
	}
}

// ─── Rule 2: Fixed Daily Bonuses ────────────────────────────────────────────

func TestCalculateFocus_DailyFirst(t *testing.T) {
	cat := testCatalog()
	awards, err := CalculateFocus(plainAction(1500), plainSnapshot(1, 10+1, 90000), 0, cat, nil)
	if err != nil {
		t.Fatalf("CalculateFocus() error: %v", err)
	}

	fixed := findKind(t, awards, domain.KindDailyFixed)
	if len(fixed) != 1 {
		t.Fatalf("daily fixed awards = %d, want 1", len(fixed))
	}
	if fixed[0].EventKey() != "daily_first" {
		t.Errorf("key = %q, want daily_first", fixed[0].EventKey())
	}
	if fixed[0].Points != cat.DailyFirstPoints {
		t.Errorf("points = %d, want %d", fixed[0].Points, cat.DailyFirstPoints)
	}
}

func TestCalculateFocus_DailyOrdinal(t *testing.T) {
	cat := testCatalog() // Default has an ordinal bonus at 4

	awards, err := CalculateFocus(plainAction(1500), plainSnapshot(4, 20, 90000), 0, cat, nil)
	if err != nil {
		t.Fatalf("CalculateFocus() error: %v", err)
	}
	fixed := findKind(t, awards, domain.KindDailyFixed)
	if len(fixed) != 1 {
		t.Fatalf("daily fixed awards = %d, want 1", len(fixed))
	}
	if fixed[0].EventKey() != "daily_4th" {
		t.Errorf("key = %q, want daily_4th", fixed[0].EventKey())
	}

	// Ordinal 3 matches nothing
	awards, _ = CalculateFocus(plainAction(1500), plainSnapshot(3, 20, 90000), 0, cat, nil)
	if got := findKind(t, awards, domain.KindDailyFixed); len(got) != 0 {
		t.Errorf("daily fixed at ordinal 3 = %d awards, want 0", len(got))
	}
}

// ─── Rule 3: Scaling Daily Bonus ────────────────────────────────────────────

func TestCalculateFocus_ScalingFormula(t *testing.T) {
	cat := testCatalog()

	// todayCount = scalingStart + k must award scalingBase + k*increment
	for k := 0; k <= 5; k++ {
		n := cat.ScalingStart + k
		awards, err := CalculateFocus(plainAction(1500), plainSnapshot(n, 100+n, 900000), 0, cat, nil)
		if err != nil {
			t.Fatalf("CalculateFocus(k=%d) error: %v", k, err)
		}

		scaling := findKind(t, awards, domain.KindDailyScaling)
		if len(scaling) != 1 {
			t.Fatalf("scaling awards at n=%d: %d, want 1", n, len(scaling))
		}
		want := cat.ScalingBase + int64(k)*cat.ScalingIncrement
		if scaling[0].Points != want {
			t.Errorf("scaling points at k=%d = %d, want %d", k, scaling[0].Points, want)
		}
		if scaling[0].Ordinal != n {
			t.Errorf("scaling ordinal = %d, want %d", scaling[0].Ordinal, n)
		}
	}
}

func TestCalculateFocus_ScalingBelowStart(t *testing.T) {
	cat := testCatalog()
	awards, _ := CalculateFocus(plainAction(1500), plainSnapshot(cat.ScalingStart-1, 50, 90000), 0, cat, nil)
	if got := findKind(t, awards, domain.KindDailyScaling); len(got) != 0 {
		t.Errorf("scaling below start = %d awards, want 0", len(got))
	}
}

func TestCalculateFocus_FixedAndScalingCoFire(t *testing.T) {
	// When a fixed ordinal coincides with the scaling range both fire;
	// overlap is not special-cased.
	cat := testCatalog()
	cat.DailyOrdinals = []domain.OrdinalBonus{{Ordinal: 6, Points: 40}}
	cat.ScalingStart = 5

	awards, err := CalculateFocus(plainAction(1500), plainSnapshot(6, 50, 90000), 0, cat, nil)
	if err != nil {
		t.Fatalf("CalculateFocus() error: %v", err)
	}
	if got := findKind(t, awards, domain.KindDailyFixed); len(got) != 1 {
		t.Errorf("fixed awards = %d, want 1", len(got))
	}
	if got := findKind(t, awards, domain.KindDailyScaling); len(got) != 1 {
		t.Errorf("scaling awards = %d, want 1", len(got))
	}
}

// ─── Rule 4: Streak Bonus ───────────────────────────────────────────────────

func TestCalculateFocus_StreakBonus(t *testing.T) {
	cat := testCatalog()

	awards, _ := CalculateFocus(plainAction(1500), plainSnapshot(1, 30, 90000), cat.MinStreakDays, cat, nil)
	bonus := findKind(t, awards, domain.KindStreak)
	if len(bonus) != 1 {
		t.Fatalf("streak awards at min = %d, want 1", len(bonus))
	}
	if bonus[0].StreakDays != cat.MinStreakDays {
		t.Errorf("streak meta days = %d, want %d", bonus[0].StreakDays, cat.MinStreakDays)
	}

	awards, _ = CalculateFocus(plainAction(1500), plainSnapshot(1, 30, 90000), cat.MinStreakDays-1, cat, nil)
	if got := findKind(t, awards, domain.KindStreak); len(got) != 0 {
		t.Errorf("streak awards below min = %d, want 0", len(got))
	}
}

// ─── Rules 5–6: Count Milestones ────────────────────────────────────────────

func TestCalculateFocus_TotalCountMilestoneExactMatch(t *testing.T) {
	cat := testCatalog()

	awards, _ := CalculateFocus(plainAction(1500), plainSnapshot(1, 10, 90000), 0, cat, nil)
	ms := findKind(t, awards, domain.KindCountMilestone)
	if len(ms) != 1 {
		t.Fatalf("milestones at total=10: %d, want 1", len(ms))
	}
	if ms[0].EventKey() != "milestone_total_10" {
		t.Errorf("key = %q, want milestone_total_10", ms[0].EventKey())
	}

	// One past the threshold: nothing fires
	awards, _ = CalculateFocus(plainAction(1500), plainSnapshot(1, 11, 90000), 0, cat, nil)
	if got := findKind(t, awards, domain.KindCountMilestone); len(got) != 0 {
		t.Errorf("milestones at total=11: %d, want 0", len(got))
	}
}

func TestCalculateFocus_MilestoneIdempotentAcrossHistory(t *testing.T) {
	// Replaying a full history fires each threshold exactly once.
	cat := testCatalog()

	fired := map[string]int{}
	for total := 1; total <= 120; total++ {
		awards, err := CalculateFocus(plainAction(1500), plainSnapshot(1, total, int64(total)*1500), 0, cat, nil)
		if err != nil {
			t.Fatalf("CalculateFocus(total=%d) error: %v", total, err)
		}
		for _, a := range findKind(t, awards, domain.KindCountMilestone) {
			fired[a.EventKey()]++
		}
	}

	for key, n := range fired {
		if n != 1 {
			t.Errorf("milestone %s fired %d times, want 1", key, n)
		}
	}
	for _, want := range []string{"milestone_total_10", "milestone_total_50", "milestone_total_100"} {
		if fired[want] != 1 {
			t.Errorf("milestone %s never fired", want)
		}
	}
}

func TestCalculateFocus_ScopedCountMilestones(t *testing.T) {
	cat := testCatalog()

	action := plainAction(1500)
	action.Scopes = domain.ScopeSet{Project: "thesis", Categories: []string{"writing"}}

	snap := plainSnapshot(1, 200, 900000)
	snap.Project = &domain.ScopeTotals{Count: 25, DurationSec: 40000}
	snap.Categories = map[string]domain.ScopeTotals{
		"writing": {Count: 100, DurationSec: 150000},
	}

	awards, err := CalculateFocus(action, snap, 0, cat, nil)
	if err != nil {
		t.Fatalf("CalculateFocus() error: %v", err)
	}

	keys := map[string]bool{}
	for _, a := range findKind(t, awards, domain.KindCountMilestone) {
		keys[a.EventKey()] = true
	}
	if !keys["milestone_project_25"] {
		t.Error("expected milestone_project_25 to fire")
	}
	if !keys["milestone_category_100"] {
		t.Error("expected milestone_category_100 to fire")
	}
}

// ─── Rules 7–8: Duration Milestones ─────────────────────────────────────────

func TestCalculateFocus_DurationCrossing(t *testing.T) {
	cat := testCatalog()
	cat.HourMilestones = []domain.Milestone{{Threshold: 10, Points: 100}}

	// previous = 35000, action = 5000: crosses 36000s (10h)
	awards, err := CalculateFocus(plainAction(5000), plainSnapshot(1, 30, 40000), 0, cat, nil)
	if err != nil {
		t.Fatalf("CalculateFocus() error: %v", err)
	}
	ms := findKind(t, awards, domain.KindDurationMilestone)
	if len(ms) != 1 {
		t.Fatalf("duration milestones = %d, want 1", len(ms))
	}
	if ms[0].EventKey() != "milestone_hours_10" {
		t.Errorf("key = %q, want milestone_hours_10", ms[0].EventKey())
	}

	// previous = 36500: already past the threshold, must not fire again
	awards, _ = CalculateFocus(plainAction(5000), plainSnapshot(1, 30, 41500), 0, cat, nil)
	if got := findKind(t, awards, domain.KindDurationMilestone); len(got) != 0 {
		t.Errorf("duration milestones past threshold = %d, want 0", len(got))
	}
}

func TestCalculateFocus_DurationLandsExactly(t *testing.T) {
	// previous < H <= new includes landing exactly on the threshold.
	cat := testCatalog()
	cat.HourMilestones = []domain.Milestone{{Threshold: 1, Points: 10}}

	awards, _ := CalculateFocus(plainAction(600), plainSnapshot(1, 5, 3600), 0, cat, nil)
	if got := findKind(t, awards, domain.KindDurationMilestone); len(got) != 1 {
		t.Errorf("duration milestones at exact landing = %d, want 1", len(got))
	}
}

func TestCalculateFocus_ScopedDurationCrossing(t *testing.T) {
	cat := testCatalog()
	cat.ScopeHourMilestones = []domain.Milestone{{Threshold: 10, Points: 100}}

	action := plainAction(5000)
	action.Scopes = domain.ScopeSet{Project: "thesis"}

	snap := plainSnapshot(1, 30, 500000)
	snap.Project = &domain.ScopeTotals{Count: 12, DurationSec: 40000} // prev 35000

	awards, err := CalculateFocus(action, snap, 0, cat, nil)
	if err != nil {
		t.Fatalf("CalculateFocus() error: %v", err)
	}
	ms := findKind(t, awards, domain.KindDurationMilestone)
	if len(ms) != 1 {
		t.Fatalf("scoped duration milestones = %d, want 1", len(ms))
	}
	if ms[0].EventKey() != "milestone_project_hours_10" {
		t.Errorf("key = %q, want milestone_project_hours_10", ms[0].EventKey())
	}
}

// ─── Rule 9: Random Reward ──────────────────────────────────────────────────

func TestCalculateFocus_RandomNeverWithZeroProbability(t *testing.T) {
	cat := testCatalog() // probability 0
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		awards, _ := CalculateFocus(plainAction(1500), plainSnapshot(2, 30, 90000), 0, cat, rng)
		if got := findKind(t, awards, domain.KindRandom); len(got) != 0 {
			t.Fatalf("random fired with probability 0")
		}
	}
}

func TestCalculateFocus_RandomAlwaysWithFullProbability(t *testing.T) {
	cat := testCatalog()
	cat.Random = domain.RandomReward{Probability: 1.0, MinPoints: 10, MaxPoints: 100}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		awards, _ := CalculateFocus(plainAction(1500), plainSnapshot(2, 30, 90000), 0, cat, rng)
		got := findKind(t, awards, domain.KindRandom)
		if len(got) != 1 {
			t.Fatalf("random awards = %d, want 1", len(got))
		}
		if got[0].Points < 10 || got[0].Points > 100 {
			t.Fatalf("random payout %d outside [10, 100]", got[0].Points)
		}
	}
}

func TestCalculateFocus_RandomEmpiricalRate(t *testing.T) {
	cat := testCatalog()
	cat.Random = domain.RandomReward{Probability: 0.05, MinPoints: 10, MaxPoints: 100}
	rng := rand.New(rand.NewSource(42))

	const trials = 20000
	hits := 0
	for i := 0; i < trials; i++ {
		awards, _ := CalculateFocus(plainAction(1500), plainSnapshot(2, 30, 90000), 0, cat, rng)
		hits += len(findKind(t, awards, domain.KindRandom))
	}

	rate := float64(hits) / trials
	if rate < 0.04 || rate > 0.06 {
		t.Errorf("empirical rate %.4f outside [0.04, 0.06] for p=0.05", rate)
	}
}

// ─── Task Entry Point ───────────────────────────────────────────────────────

func TestCalculateTask_Thresholds(t *testing.T) {
	cat := testCatalog() // thresholds 1, 5, 10

	cases := []struct {
		count int
		keys  int
		key   string
	}{
		{1, 1, "task_daily_1"},
		{2, 0, ""},
		{5, 1, "task_daily_5"},
		{10, 1, "task_daily_10"},
		{11, 0, ""},
	}
	for _, c := range cases {
		awards := CalculateTask(c.count, cat)
		if len(awards) != c.keys {
			t.Errorf("CalculateTask(%d) = %d awards, want %d", c.count, len(awards), c.keys)
			continue
		}
		if c.keys == 1 && awards[0].EventKey() != c.key {
			t.Errorf("CalculateTask(%d) key = %q, want %q", c.count, awards[0].EventKey(), c.key)
		}
	}
}

// ─── Preconditions ──────────────────────────────────────────────────────────

func TestCalculateFocus_InconsistentSnapshot(t *testing.T) {
	cat := testCatalog()

	cases := []struct {
		name   string
		action domain.FocusCompletion
		snap   domain.AggregateSnapshot
	}{
		{"zero counts", plainAction(1500), plainSnapshot(0, 0, 0)},
		{"today exceeds total", plainAction(1500), plainSnapshot(5, 3, 90000)},
		{"duration below action", plainAction(5000), plainSnapshot(1, 1, 100)},
	}
	for _, c := range cases {
		_, err := CalculateFocus(c.action, c.snap, 0, cat, nil)
		if !errors.Is(err, domain.ErrInconsistentSnapshot) {
			t.Errorf("%s: err = %v, want ErrInconsistentSnapshot", c.name, err)
		}
	}
}

func TestCalculateFocus_MissingScopeAggregates(t *testing.T) {
	cat := testCatalog()

	action := plainAction(1500)
	action.Scopes = domain.ScopeSet{Project: "thesis"}

	_, err := CalculateFocus(action, plainSnapshot(1, 5, 90000), 0, cat, nil)
	if !errors.Is(err, domain.ErrInconsistentSnapshot) {
		t.Errorf("err = %v, want ErrInconsistentSnapshot for missing project totals", err)
	}
}

func TestCalculateFocus_NegativeDuration(t *testing.T) {
	cat := testCatalog()
	_, err := CalculateFocus(plainAction(-10), plainSnapshot(1, 5, 90000), 0, cat, nil)
	if !errors.Is(err, domain.ErrInvalidAction) {
		t.Errorf("err = %v, want ErrInvalidAction", err)
	}
}
