package analytics

import (
	"testing"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// fixedNow is a Wednesday afternoon in UTC.
var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return fixedNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func intPtr(n int) *int { return &n }

func skill(id, name string, rate float64, target int) model.Skill {
	return model.Skill{
		ID:                  id,
		Name:                name,
		Category:            "programming",
		DecayRate:           rate,
		TargetFrequencyDays: target,
		CreatedAt:           daysAgo(100),
	}
}

func practice(id, skillID string, at time.Time, minutes int) model.PracticeLog {
	l := model.PracticeLog{ID: id, SkillID: skillID, PracticedAt: at, CreatedAt: at}
	if minutes > 0 {
		l.DurationMinutes = intPtr(minutes)
	}
	return l
}

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(model.DefaultCategories)
}
