package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one ranked row: completions within the window
// joined with the user's cumulative balance.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Balance     int64     `json:"balance"`
	Completions int       `json:"completions"`
}

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeekWindow returns the current calendar week (Monday 00:00 through the
// following Monday) in now's location.
func WeekWindow(now time.Time) Window {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	// time.Weekday counts Sunday as 0; shift so Monday is the week start.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthWindow returns the current calendar month in now's location.
func MonthWindow(now time.Time) Window {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// DayWindow returns the calendar day containing now in now's location.
func DayWindow(now time.Time) Window {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}
