package analytics

import (
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// Analyzer derives views from in-memory skills and practice logs.
// It holds only category reference data and is safe for concurrent use.
type Analyzer struct {
	categories model.Categories
}

// New creates an Analyzer over the given categories.
func New(categories []model.Category) *Analyzer {
	return &Analyzer{categories: model.NewCategories(categories)}
}

// Category resolves a category id, falling back to "other".
func (a *Analyzer) Category(id string) model.Category {
	return a.categories.Resolve(id)
}

// SkillWithStats is a skill joined with its derived health and activity totals.
type SkillWithStats struct {
	model.Skill
	DerivedHealth
	CategoryName    string     `json:"category_name"`
	Icon            string     `json:"icon"`
	CategoryColor   string     `json:"category_color"`
	LastPracticedAt *time.Time `json:"last_practiced_at"`
	TotalSessions   int        `json:"total_sessions"`
	TotalMinutes    int        `json:"total_minutes"`
}

type activity struct {
	last     *time.Time
	sessions int
	minutes  int
}

// activityBySkill folds logs into per-skill totals and most recent practice.
func activityBySkill(logs []model.PracticeLog) map[string]*activity {
	out := make(map[string]*activity)
	for i := range logs {
		l := &logs[i]
		a, ok := out[l.SkillID]
		if !ok {
			a = &activity{}
			out[l.SkillID] = a
		}
		a.sessions++
		a.minutes += l.Minutes()
		if a.last == nil || l.PracticedAt.After(*a.last) {
			t := l.PracticedAt
			a.last = &t
		}
	}
	return out
}

// activeSkills drops archived skills, preserving order.
func activeSkills(skills []model.Skill) []model.Skill {
	out := make([]model.Skill, 0, len(skills))
	for _, s := range skills {
		if !s.Archived {
			out = append(out, s)
		}
	}
	return out
}

// logsFor keeps only logs that belong to one of the given skills.
func logsFor(skills []model.Skill, logs []model.PracticeLog) []model.PracticeLog {
	ids := make(map[string]bool, len(skills))
	for _, s := range skills {
		ids[s.ID] = true
	}
	out := make([]model.PracticeLog, 0, len(logs))
	for _, l := range logs {
		if ids[l.SkillID] {
			out = append(out, l)
		}
	}
	return out
}

// WithStats joins one skill with its health and totals.
func (a *Analyzer) WithStats(skill model.Skill, logs []model.PracticeLog, now time.Time) SkillWithStats {
	act := activityBySkill(logsFor([]model.Skill{skill}, logs))[skill.ID]
	if act == nil {
		act = &activity{}
	}
	return a.withStats(skill, act, now)
}

func (a *Analyzer) withStats(skill model.Skill, act *activity, now time.Time) SkillWithStats {
	cat := a.categories.Resolve(skill.Category)
	return SkillWithStats{
		Skill:           skill,
		DerivedHealth:   ComputeHealth(skill, act.last, now),
		CategoryName:    cat.Name,
		Icon:            cat.Icon,
		CategoryColor:   cat.Color,
		LastPracticedAt: act.last,
		TotalSessions:   act.sessions,
		TotalMinutes:    act.minutes,
	}
}

// ListSkillsWithHealth returns every non-archived skill with derived health,
// in input order.
func (a *Analyzer) ListSkillsWithHealth(skills []model.Skill, logs []model.PracticeLog, now time.Time) []SkillWithStats {
	acts := activityBySkill(logs)
	active := activeSkills(skills)
	out := make([]SkillWithStats, 0, len(active))
	for _, s := range active {
		act := acts[s.ID]
		if act == nil {
			act = &activity{}
		}
		out = append(out, a.withStats(s, act, now))
	}
	return out
}
