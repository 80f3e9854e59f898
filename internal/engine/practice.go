package engine

import (
	"context"
	"fmt"

	"github.com/lazypower/keepsharp/internal/model"
)

// LogPractice records a practice session against an existing skill.
// PracticedAt defaults to now.
func (e *Engine) LogPractice(ctx context.Context, skillID string, in model.LogInput) (*model.PracticeLog, error) {
	s, err := e.Store.GetSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("skill %s: %w", skillID, model.ErrNotFound)
	}

	now := e.Now()
	l := &model.PracticeLog{
		SkillID:         skillID,
		PracticedAt:     now,
		DurationMinutes: in.DurationMinutes,
		Quality:         in.Quality,
		Notes:           in.Notes,
		CreatedAt:       now,
	}
	if in.PracticedAt != nil && !in.PracticedAt.IsZero() {
		l.PracticedAt = *in.PracticedAt
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if err := e.Store.InsertLog(ctx, l); err != nil {
		return nil, err
	}
	e.Log.Info("practice logged", "skill", s.Name, "minutes", l.Minutes())
	return l, nil
}

// Logs lists practice logs, most recent first, optionally for one skill.
// A limit of zero or less returns all of them.
func (e *Engine) Logs(ctx context.Context, skillID string, limit int) ([]model.PracticeLog, error) {
	if skillID != "" {
		s, err := e.Store.GetSkill(ctx, skillID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("skill %s: %w", skillID, model.ErrNotFound)
		}
		return e.Store.ListSkillLogs(ctx, skillID, limit)
	}

	logs, err := e.Store.ListPracticeLogs(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// DeleteLog removes a single practice log.
func (e *Engine) DeleteLog(ctx context.Context, id string) error {
	if err := e.Store.DeleteLog(ctx, id); err != nil {
		return err
	}
	e.Log.Info("practice log deleted", "id", id)
	return nil
}
