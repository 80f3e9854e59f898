package engine

import (
	"context"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

// Dashboard returns the dashboard summary.
func (e *Engine) Dashboard(ctx context.Context) (analytics.Dashboard, error) {
	skills, logs, err := e.snapshot(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return e.getAnalyzer().BuildDashboard(skills, logs, e.Now()), nil
}

// Alerts returns the current attention alerts, most severe first.
func (e *Engine) Alerts(ctx context.Context) ([]analytics.Alert, error) {
	skills, logs, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return e.getAnalyzer().BuildAlerts(skills, logs, e.Now()), nil
}

// History returns the daily series and per-skill trends for the last days.
func (e *Engine) History(ctx context.Context, days int, opts ...analytics.HistoryOption) (analytics.HistoryData, error) {
	skills, logs, err := e.snapshot(ctx)
	if err != nil {
		return analytics.HistoryData{}, err
	}
	return e.getAnalyzer().BuildHistory(skills, logs, days, e.Now(), opts...), nil
}

// Categories returns the configured categories.
func (e *Engine) Categories(ctx context.Context) ([]model.Category, error) {
	return e.Store.ListCategories(ctx)
}

// Settings returns the stored user settings.
func (e *Engine) Settings(ctx context.Context) (model.Settings, error) {
	return e.Store.GetSettings(ctx)
}

// UpdateSettings validates and stores s.
func (e *Engine) UpdateSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	if err := s.Validate(); err != nil {
		return s, err
	}
	if err := e.Store.UpdateSettings(ctx, s); err != nil {
		return s, err
	}
	e.Log.Info("settings updated", "default_target_frequency", s.DefaultTargetFrequency, "theme", s.Theme)
	return s, nil
}
