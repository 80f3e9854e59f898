package analytics

import (
	"sort"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// ActivityWindowDays is the length of the dashboard activity rollup.
const ActivityWindowDays = 7

// DayActivity is one day of the dashboard activity rollup.
type DayActivity struct {
	Date         string `json:"date"`
	Sessions     int    `json:"sessions"`
	TotalMinutes int    `json:"total_minutes"`
}

// Dashboard is the summary view of every non-archived skill.
type Dashboard struct {
	TotalSkills       int              `json:"total_skills"`
	HealthBreakdown   map[Health]int   `json:"health_breakdown"`
	Decaying          []SkillWithStats `json:"decaying_skills"`
	WeeklyActivity    []DayActivity    `json:"weekly_activity"`
	PracticedToday    bool             `json:"practiced_today"`
	CurrentStreak     int              `json:"current_streak"`
	TotalPracticeDays int              `json:"total_practice_days"`
}

// BuildDashboard combines health, streak and the trailing week of activity.
// Logs of archived skills are ignored.
func (a *Analyzer) BuildDashboard(skills []model.Skill, logs []model.PracticeLog, now time.Time) Dashboard {
	active := activeSkills(skills)
	activeLogs := logsFor(active, logs)
	withHealth := a.ListSkillsWithHealth(active, activeLogs, now)

	d := Dashboard{
		TotalSkills:     len(withHealth),
		HealthBreakdown: make(map[Health]int, len(AllHealth)),
		Decaying:        []SkillWithStats{},
	}
	for _, h := range AllHealth {
		d.HealthBreakdown[h] = 0
	}
	for _, s := range withHealth {
		d.HealthBreakdown[s.Status]++
		if s.Status.Decaying() {
			d.Decaying = append(d.Decaying, s)
		}
	}
	sort.SliceStable(d.Decaying, func(i, j int) bool {
		return *d.Decaying[i].DecayScore > *d.Decaying[j].DecayScore
	})

	d.WeeklyActivity = weeklyActivity(activeLogs, now)
	d.PracticedToday = d.WeeklyActivity[len(d.WeeklyActivity)-1].Sessions > 0

	streak := CalculateStreak(practiceTimes(activeLogs), now)
	d.CurrentStreak = streak.Current
	d.TotalPracticeDays = streak.TotalDays
	return d
}

func weeklyActivity(logs []model.PracticeLog, now time.Time) []DayActivity {
	keys := dayKeys(now, ActivityWindowDays)
	out := make([]DayActivity, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		out[i] = DayActivity{Date: k}
		index[k] = i
	}
	for _, l := range logs {
		i, ok := index[dayKey(l.PracticedAt, now.Location())]
		if !ok {
			continue
		}
		out[i].Sessions++
		out[i].TotalMinutes += l.Minutes()
	}
	return out
}
