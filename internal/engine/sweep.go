package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lazypower/keepsharp/internal/analytics"
)

// SweepResult counts alerts by severity.
type SweepResult struct {
	Critical int
	Warning  int
	Info     int
}

// Sweep computes the current alerts and logs a summary.
func (e *Engine) Sweep(ctx context.Context) (SweepResult, error) {
	alerts, err := e.Alerts(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	var res SweepResult
	for _, a := range alerts {
		switch a.Severity {
		case analytics.SeverityCritical:
			res.Critical++
		case analytics.SeverityWarning:
			res.Warning++
		case analytics.SeverityInfo:
			res.Info++
		}
	}

	if res.Critical > 0 || res.Warning > 0 {
		e.Log.Warn("skills need attention", "critical", res.Critical, "warning", res.Warning, "never_practiced", res.Info)
	} else {
		e.Log.Info("alert sweep: all skills on track", "never_practiced", res.Info)
	}
	for _, a := range alerts {
		if a.Severity == analytics.SeverityCritical {
			e.Log.Debug("critical skill", "skill", a.SkillName, "days_since", a.DaysSince)
		}
	}
	return res, nil
}

func (e *Engine) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := e.Sweep(ctx); err != nil {
		e.Log.Error("alert sweep failed", "error", err)
	}
}

// StartAlertSweep runs the alert sweep once now and then every day at
// the given HH:MM local time.
func (e *Engine) StartAlertSweep(at string) error {
	e.runSweep()

	s := gocron.NewScheduler(time.Local)
	if _, err := s.Every(1).Day().At(at).Do(e.runSweep); err != nil {
		return fmt.Errorf("schedule alert sweep at %q: %w", at, err)
	}
	s.StartAsync()

	e.mu.Lock()
	e.scheduler = s
	e.mu.Unlock()
	e.Log.Info("alert sweep scheduled", "at", at)
	return nil
}
