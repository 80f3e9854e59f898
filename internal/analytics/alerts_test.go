package analytics

import (
	"strings"
	"testing"

	"github.com/lazypower/keepsharp/internal/model"
)

func TestBuildAlerts(t *testing.T) {
	a := testAnalyzer(t)
	skills := []model.Skill{
		skill("never", "Chess", 1, 7),
		skill("ok", "Go", 1, 7),
		skill("overdue", "Spanish", 1, 7),
		skill("crit", "Guitar", 1, 7),
		skill("never2", "Drawing", 1, 7),
		skill("crit2", "Running", 1, 2),
	}
	archived := skill("arch", "Latin", 1, 7)
	archived.Archived = true
	skills = append(skills, archived)

	logs := []model.PracticeLog{
		practice("l1", "ok", daysAgo(2), 30),
		practice("l2", "overdue", daysAgo(10), 30),
		practice("l3", "crit", daysAgo(25), 30),
		practice("l4", "crit2", daysAgo(7), 30),
	}

	alerts := a.BuildAlerts(skills, logs, fixedNow)

	wantOrder := []struct {
		id       string
		severity Severity
		typ      AlertType
	}{
		{"crit", SeverityCritical, AlertCriticalDecay},
		{"crit2", SeverityCritical, AlertCriticalDecay},
		{"overdue", SeverityWarning, AlertOverdue},
		{"never", SeverityInfo, AlertNeverPracticed},
		{"never2", SeverityInfo, AlertNeverPracticed},
	}
	if len(alerts) != len(wantOrder) {
		t.Fatalf("got %d alerts, want %d: %+v", len(alerts), len(wantOrder), alerts)
	}
	for i, w := range wantOrder {
		got := alerts[i]
		if got.SkillID != w.id || got.Severity != w.severity || got.Type != w.typ {
			t.Errorf("alert[%d] = %s/%s/%s, want %s/%s/%s", i, got.SkillID, got.Severity, got.Type, w.id, w.severity, w.typ)
		}
	}

	if alerts[0].DaysSince == nil || *alerts[0].DaysSince != 25 {
		t.Errorf("critical days_since = %v, want 25", alerts[0].DaysSince)
	}
	if !strings.Contains(alerts[0].Message, "Guitar") || !strings.Contains(alerts[0].Message, "25") {
		t.Errorf("message %q should mention skill and days", alerts[0].Message)
	}
	if alerts[3].DaysSince != nil {
		t.Errorf("never practiced days_since = %v, want nil", *alerts[3].DaysSince)
	}
	if alerts[0].Icon == "" {
		t.Error("expected category icon on alert")
	}
}

func TestBuildAlertsBoundaries(t *testing.T) {
	a := testAnalyzer(t)
	skills := []model.Skill{
		skill("at-target", "A", 1, 7),
		skill("at-triple", "B", 1, 7),
	}
	logs := []model.PracticeLog{
		practice("l1", "at-target", daysAgo(7), 0),
		practice("l2", "at-triple", daysAgo(21), 0),
	}
	alerts := a.BuildAlerts(skills, logs, fixedNow)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(alerts), alerts)
	}
	if alerts[0].SkillID != "at-triple" || alerts[0].Severity != SeverityWarning {
		t.Errorf("alert = %s/%s, want at-triple/warning", alerts[0].SkillID, alerts[0].Severity)
	}
}

func TestBuildAlertsEmpty(t *testing.T) {
	alerts := testAnalyzer(t).BuildAlerts(nil, nil, fixedNow)
	if alerts == nil || len(alerts) != 0 {
		t.Errorf("alerts = %v, want empty non-nil slice", alerts)
	}
}
