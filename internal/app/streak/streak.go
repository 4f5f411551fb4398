// Package streak derives consecutive-day streaks from activity history.
// A streak is the count of consecutive calendar days containing at least
// one completed focus session. Nothing here is persisted — streaks are
// recomputed on demand from the distinct activity dates.
package streak

import (
	"sort"
	"time"

	"github.com/emberfocus/ember/internal/domain"
)

// Compute derives {current, best} from the distinct calendar dates on
// which the user completed at least one session. Dates may arrive in any
// order and with any time-of-day component; only the calendar day counts.
//
// Anchor policy: the current run counts if its most recent day is today
// or yesterday relative to `today`. On the award path the triggering
// action is already recorded, so the most recent day IS today and the
// looser anchor changes nothing; it only keeps a streak visible in the
// stats view before the user's first session of the day.
func Compute(dates []time.Time, today time.Time) domain.StreakInfo {
	days := distinctDays(dates)
	if len(days) == 0 {
		return domain.StreakInfo{}
	}

	info := domain.StreakInfo{
		Current: currentRun(days, dayOf(today)),
		Best:    longestRun(days),
	}

	// The most recent run may not yet be the historical maximum.
	if info.Current > info.Best {
		info.Best = info.Current
	}
	return info
}

// currentRun walks backward from the most recent day counting exact
// one-day decrements, anchored at today or yesterday.
func currentRun(days []time.Time, today time.Time) int {
	latest := days[len(days)-1]
	gap := daysBetween(latest, today)
	if gap > 1 {
		return 0 // Anchor lost — last activity was before yesterday
	}

	run := 1
	for i := len(days) - 2; i >= 0; i-- {
		if daysBetween(days[i], days[i+1]) != 1 {
			break
		}
		run++
	}
	return run
}

// longestRun scans the full history for the longest consecutive-day run.
func longestRun(days []time.Time) int {
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// distinctDays normalizes to midnight UTC, dedupes, and sorts ascending.
func distinctDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := dayOf(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// dayOf truncates a timestamp to its calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
