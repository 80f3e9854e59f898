package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// DailyStat aggregates one calendar day of practice.
type DailyStat struct {
	Date            string  `json:"date"`
	Sessions        int     `json:"sessions"`
	SkillsPracticed int     `json:"skills_practiced"`
	TotalMinutes    int     `json:"total_minutes"`
	AvgQuality      float64 `json:"avg_quality"`
}

// SkillTrend is one skill's activity inside the history window.
type SkillTrend struct {
	SkillID         string     `json:"skill_id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Icon            string     `json:"icon"`
	Color           string     `json:"color"`
	Sessions        int        `json:"sessions"`
	TotalMinutes    int        `json:"total_minutes"`
	LastPracticedAt *time.Time `json:"last_practiced_at"`
	Health          Health     `json:"health"`
}

// HistoryData is the charting view over a fixed window of days.
type HistoryData struct {
	Days   int          `json:"days"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Daily  []DailyStat  `json:"daily"`
	Skills []SkillTrend `json:"skills"`
}

type historyOptions struct {
	includeArchived bool
}

// HistoryOption tunes BuildHistory.
type HistoryOption func(*historyOptions)

// IncludeArchived counts practice on archived skills in the daily series.
func IncludeArchived() HistoryOption {
	return func(o *historyOptions) { o.includeArchived = true }
}

// ClampHistoryDays applies the default and the upper bound to a window size.
func ClampHistoryDays(days int) int {
	if days <= 0 {
		return DefaultHistoryDays
	}
	if days > MaxHistoryDays {
		return MaxHistoryDays
	}
	return days
}

// BuildHistory returns exactly windowDays daily entries ending today, plus
// per-skill activity for non-archived skills ranked by sessions in the window.
func (a *Analyzer) BuildHistory(skills []model.Skill, logs []model.PracticeLog, windowDays int, now time.Time, opts ...HistoryOption) HistoryData {
	var o historyOptions
	for _, opt := range opts {
		opt(&o)
	}

	n := ClampHistoryDays(windowDays)
	keys := dayKeys(now, n)
	h := HistoryData{
		Days:  n,
		From:  keys[0],
		To:    keys[n-1],
		Daily: make([]DailyStat, n),
	}

	active := activeSkills(skills)
	counted := active
	if o.includeArchived {
		counted = skills
	}
	countedLogs := logsFor(counted, logs)

	index := make(map[string]int, n)
	for i, k := range keys {
		h.Daily[i] = DailyStat{Date: k}
		index[k] = i
	}

	type dayAcc struct {
		skills     map[string]bool
		qualitySum int
		rated      int
	}
	acc := make([]dayAcc, n)
	inWindow := make(map[string]*activity)

	for _, l := range countedLogs {
		i, ok := index[dayKey(l.PracticedAt, now.Location())]
		if !ok {
			continue
		}
		day := &h.Daily[i]
		day.Sessions++
		day.TotalMinutes += l.Minutes()
		if acc[i].skills == nil {
			acc[i].skills = make(map[string]bool)
		}
		acc[i].skills[l.SkillID] = true
		if l.Quality != nil {
			acc[i].qualitySum += *l.Quality
			acc[i].rated++
		}

		w, ok := inWindow[l.SkillID]
		if !ok {
			w = &activity{}
			inWindow[l.SkillID] = w
		}
		w.sessions++
		w.minutes += l.Minutes()
	}

	for i := range h.Daily {
		h.Daily[i].SkillsPracticed = len(acc[i].skills)
		if acc[i].rated > 0 {
			avg := float64(acc[i].qualitySum) / float64(acc[i].rated)
			h.Daily[i].AvgQuality = math.Round(avg*10) / 10
		}
	}

	allTime := activityBySkill(logs)
	h.Skills = make([]SkillTrend, 0, len(active))
	for _, s := range active {
		cat := a.categories.Resolve(s.Category)
		t := SkillTrend{
			SkillID:  s.ID,
			Name:     s.Name,
			Category: cat.ID,
			Icon:     cat.Icon,
			Color:    cat.Color,
		}
		if w := inWindow[s.ID]; w != nil {
			t.Sessions = w.sessions
			t.TotalMinutes = w.minutes
		}
		var last *time.Time
		if all := allTime[s.ID]; all != nil {
			last = all.last
		}
		t.LastPracticedAt = last
		t.Health = ComputeHealth(s, last, now).Status
		h.Skills = append(h.Skills, t)
	}
	sort.SliceStable(h.Skills, func(i, j int) bool {
		return h.Skills[i].Sessions > h.Skills[j].Sessions
	})
	return h
}
