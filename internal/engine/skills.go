package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

// RecentLogLimit is how many logs a skill detail view carries.
const RecentLogLimit = 20

// SkillDetail is one skill with its stats and most recent practice.
type SkillDetail struct {
	analytics.SkillWithStats
	RecentLogs []model.PracticeLog `json:"recent_logs"`
}

// resolveCategory maps empty or unknown category ids to "other".
func (e *Engine) resolveCategory(id string) string {
	return e.getAnalyzer().Category(strings.TrimSpace(id)).ID
}

// CreateSkill validates in and stores a new skill. Missing decay rate and
// target frequency are seeded from the category and the settings.
func (e *Engine) CreateSkill(ctx context.Context, in model.SkillInput) (*model.Skill, error) {
	settings, err := e.Store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	cat := e.getAnalyzer().Category(strings.TrimSpace(in.Category))
	s := &model.Skill{
		Name:                strings.TrimSpace(in.Name),
		Category:            cat.ID,
		DecayRate:           cat.DefaultDecayRate,
		TargetFrequencyDays: settings.DefaultTargetFrequency,
		Notes:               in.Notes,
		CreatedAt:           e.Now(),
	}
	if in.DecayRate != nil {
		s.DecayRate = *in.DecayRate
	}
	if in.TargetFrequencyDays != nil {
		s.TargetFrequencyDays = *in.TargetFrequencyDays
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if err := e.Store.InsertSkill(ctx, s); err != nil {
		return nil, err
	}
	e.Log.Info("skill created", "id", s.ID, "name", s.Name, "category", s.Category)
	return s, nil
}

// UpdateSkill applies a partial update. Unset fields keep their values.
func (e *Engine) UpdateSkill(ctx context.Context, id string, patch model.SkillPatch) (*model.Skill, error) {
	cur, err := e.Store.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, fmt.Errorf("skill %s: %w", id, model.ErrNotFound)
	}

	next, err := patch.Apply(*cur)
	if err != nil {
		return nil, err
	}
	next.Category = e.resolveCategory(next.Category)
	if err := e.Store.UpdateSkill(ctx, &next); err != nil {
		return nil, err
	}
	e.Log.Info("skill updated", "id", id)
	return &next, nil
}

// DeleteSkill removes a skill and its practice logs.
func (e *Engine) DeleteSkill(ctx context.Context, id string) error {
	if err := e.Store.DeleteSkill(ctx, id); err != nil {
		return err
	}
	e.Log.Info("skill deleted", "id", id)
	return nil
}

// Skill returns one skill, archived or not, with stats and recent logs.
func (e *Engine) Skill(ctx context.Context, id string) (*SkillDetail, error) {
	s, err := e.Store.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("skill %s: %w", id, model.ErrNotFound)
	}
	logs, err := e.Store.ListSkillLogs(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	detail := &SkillDetail{SkillWithStats: e.getAnalyzer().WithStats(*s, logs, e.Now())}
	if len(logs) > RecentLogLimit {
		logs = logs[:RecentLogLimit]
	}
	detail.RecentLogs = logs
	return detail, nil
}

// FindSkill looks a skill up by id, then by case-insensitive name.
func (e *Engine) FindSkill(ctx context.Context, ref string) (*model.Skill, error) {
	if s, err := e.Store.GetSkill(ctx, ref); err != nil || s != nil {
		return s, err
	}
	skills, err := e.Store.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(ref))
	for i := range skills {
		if strings.ToLower(strings.TrimSpace(skills[i].Name)) == want {
			return &skills[i], nil
		}
	}
	return nil, fmt.Errorf("skill %q: %w", ref, model.ErrNotFound)
}

// SkillsWithHealth returns the non-archived skills with derived health.
func (e *Engine) SkillsWithHealth(ctx context.Context) ([]analytics.SkillWithStats, error) {
	skills, logs, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return e.getAnalyzer().ListSkillsWithHealth(skills, logs, e.Now()), nil
}

// ArchivedSkills returns archived skills without derived health.
func (e *Engine) ArchivedSkills(ctx context.Context) ([]model.Skill, error) {
	skills, err := e.Store.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Skill{}
	for _, s := range skills {
		if s.Archived {
			out = append(out, s)
		}
	}
	return out, nil
}
