package streak

import (
	"testing"
	"time"

	"github.com/emberfocus/ember/internal/domain"
)

var today = time.Date(2025, 7, 10, 14, 30, 0, 0, time.UTC)

// day returns a timestamp n days before today, with an arbitrary
// time-of-day so tests exercise the normalization.
func day(n int) time.Time {
	return today.AddDate(0, 0, -n).Add(3 * time.Hour)
}

func check(t *testing.T, got domain.StreakInfo, current, best int) {
	t.Helper()
	if got.Current != current {
		t.Errorf("current = %d, want %d", got.Current, current)
	}
	if got.Best != best {
		t.Errorf("best = %d, want %d", got.Best, best)
	}
}

func TestCompute_Empty(t *testing.T) {
	check(t, Compute(nil, today), 0, 0)
}

func TestCompute_SingleDayToday(t *testing.T) {
	check(t, Compute([]time.Time{day(0)}, today), 1, 1)
}

func TestCompute_ThreeConsecutiveDays(t *testing.T) {
	dates := []time.Time{day(0), day(1), day(2)}
	check(t, Compute(dates, today), 3, 3)
}

func TestCompute_GapBreaksCurrentRun(t *testing.T) {
	// Activity today, then a hole at D-1: current restarts at 1 while
	// the older run is preserved as best.
	dates := []time.Time{day(0), day(2), day(3), day(4)}
	check(t, Compute(dates, today), 1, 3)
}

func TestCompute_AnchoredAtYesterday(t *testing.T) {
	// No session yet today; yesterday's run is still the current streak.
	dates := []time.Time{day(1), day(2)}
	check(t, Compute(dates, today), 2, 2)
}

func TestCompute_AnchorLost(t *testing.T) {
	// Latest activity two days ago: the run is history, not current.
	dates := []time.Time{day(2), day(3), day(4), day(5)}
	check(t, Compute(dates, today), 0, 4)
}

func TestCompute_BestFromOlderHistory(t *testing.T) {
	// A long run weeks ago beats the short current one.
	dates := []time.Time{day(0), day(1), day(20), day(21), day(22), day(23), day(24)}
	check(t, Compute(dates, today), 2, 5)
}

func TestCompute_UnorderedAndDuplicateDates(t *testing.T) {
	// Multiple sessions on one day count once; order is irrelevant.
	dates := []time.Time{
		day(1), day(0), day(0).Add(2 * time.Hour), day(2), day(1),
	}
	check(t, Compute(dates, today), 3, 3)
}

func TestCompute_CurrentExceedsHistoricalBest(t *testing.T) {
	// Best is lifted to match the ongoing run.
	dates := []time.Time{day(0), day(1), day(2), day(3), day(10)}
	check(t, Compute(dates, today), 4, 4)
}
