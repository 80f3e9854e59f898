package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// Severity ranks how urgently a skill needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
	SeverityInfo:     2,
}

// AlertType says why an alert was raised.
type AlertType string

const (
	AlertNeverPracticed AlertType = "never_practiced"
	AlertCriticalDecay  AlertType = "critical_decay"
	AlertOverdue        AlertType = "overdue"
)

// criticalMultiple of the target frequency after which a skill is critical.
const criticalMultiple = 3

// Alert flags one skill that needs attention.
type Alert struct {
	SkillID   string    `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	Icon      string    `json:"icon"`
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	DaysSince *int      `json:"days_since,omitempty"`
}

// BuildAlerts raises at most one alert per non-archived skill, most severe
// first. Skills within their target frequency produce no alert.
func (a *Analyzer) BuildAlerts(skills []model.Skill, logs []model.PracticeLog, now time.Time) []Alert {
	alerts := []Alert{}
	for _, s := range a.ListSkillsWithHealth(skills, logs, now) {
		alert, ok := alertFor(s)
		if ok {
			alerts = append(alerts, alert)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank[alerts[i].Severity] < severityRank[alerts[j].Severity]
	})
	return alerts
}

func alertFor(s SkillWithStats) (Alert, bool) {
	alert := Alert{
		SkillID:   s.ID,
		SkillName: s.Name,
		Icon:      s.Icon,
		DaysSince: s.DaysSince,
	}

	if s.DaysSince == nil {
		alert.Type = AlertNeverPracticed
		alert.Severity = SeverityInfo
		alert.Message = fmt.Sprintf("You haven't practiced %s yet. Log your first session to start tracking.", s.Name)
		return alert, true
	}

	days := *s.DaysSince
	target := targetFrequency(s.Skill)
	switch {
	case days > criticalMultiple*target:
		alert.Type = AlertCriticalDecay
		alert.Severity = SeverityCritical
		alert.Message = fmt.Sprintf("%s hasn't been practiced in %d days and is decaying fast.", s.Name, days)
	case days > target:
		alert.Type = AlertOverdue
		alert.Severity = SeverityWarning
		alert.Message = fmt.Sprintf("%s is overdue: last practiced %d days ago (target every %d).", s.Name, days, target)
	default:
		return Alert{}, false
	}
	return alert, true
}
