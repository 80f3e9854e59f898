package analytics

import (
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// StreakWindowDays bounds how many days the current streak counts, starting
// from its anchor day (today or yesterday).
const StreakWindowDays = 30

// Streak summarises practice consistency.
type Streak struct {
	Current   int `json:"current_streak"`
	TotalDays int `json:"total_practice_days"`
}

// CalculateStreak counts consecutive practice days ending today, or ending
// yesterday when nothing has been logged yet today. TotalDays counts every
// distinct practice date regardless of gaps. Dates are taken in now's location.
func CalculateStreak(practiced []time.Time, now time.Time) Streak {
	loc := now.Location()
	days := make(map[string]bool, len(practiced))
	for _, t := range practiced {
		days[dayKey(t, loc)] = true
	}

	s := Streak{TotalDays: len(days)}
	if len(days) == 0 {
		return s
	}

	anchor := 0
	if !days[daysBack(now, 0).Format(dateLayout)] {
		anchor = 1
		if !days[daysBack(now, 1).Format(dateLayout)] {
			return s
		}
	}

	for i := anchor; i < anchor+StreakWindowDays; i++ {
		if !days[daysBack(now, i).Format(dateLayout)] {
			break
		}
		s.Current++
	}
	return s
}

func practiceTimes(logs []model.PracticeLog) []time.Time {
	out := make([]time.Time, len(logs))
	for i, l := range logs {
		out[i] = l.PracticedAt
	}
	return out
}
