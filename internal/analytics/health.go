package analytics

import (
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// Health is the discrete bucket derived from a decay score.
// The string values are part of the wire contract.
type Health string

const (
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthFair      Health = "fair"
	HealthRusty     Health = "rusty"
	HealthCritical  Health = "critical"
	HealthUnknown   Health = "unknown"
)

// AllHealth lists every status in display order.
var AllHealth = []Health{HealthExcellent, HealthGood, HealthFair, HealthRusty, HealthCritical, HealthUnknown}

// Upper bounds of each band, ascending. A score equal to a bound belongs to that band.
var healthBands = []struct {
	max    float64
	status Health
}{
	{0.7, HealthExcellent},
	{1.0, HealthGood},
	{1.5, HealthFair},
	{3.0, HealthRusty},
}

var healthColors = map[Health]string{
	HealthExcellent: "#22c55e",
	HealthGood:      "#84cc16",
	HealthFair:      "#eab308",
	HealthRusty:     "#f97316",
	HealthCritical:  "#ef4444",
	HealthUnknown:   "#9ca3af",
}

// Color returns the fixed display colour for a status.
func (h Health) Color() string {
	return healthColors[h]
}

// Decaying reports whether the status needs attention on the dashboard.
func (h Health) Decaying() bool {
	return h == HealthFair || h == HealthRusty || h == HealthCritical
}

// DerivedHealth is the computed, never persisted, health of a skill.
// Pointer fields are nil when the skill has never been practiced.
type DerivedHealth struct {
	Status       Health   `json:"health"`
	Color        string   `json:"health_color"`
	DaysSince    *int     `json:"days_since"`
	OverdueRatio *float64 `json:"overdue_ratio"`
	DecayScore   *float64 `json:"decay_score"`
}

// Classify maps a decay score onto a health status.
func Classify(score float64) Health {
	for _, b := range healthBands {
		if score <= b.max {
			return b.status
		}
	}
	return HealthCritical
}

// DaysSince counts whole 24h periods elapsed between last and now.
// It truncates elapsed time rather than subtracting calendar dates, and
// timestamps in the future count as zero.
func DaysSince(last, now time.Time) int {
	elapsed := now.Sub(last)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}

// ComputeHealth scores a skill given its most recent practice, if any.
// It never fails: a skill with no practice is unknown.
func ComputeHealth(skill model.Skill, lastPracticedAt *time.Time, now time.Time) DerivedHealth {
	if lastPracticedAt == nil {
		return DerivedHealth{Status: HealthUnknown, Color: HealthUnknown.Color()}
	}

	days := DaysSince(*lastPracticedAt, now)
	ratio := float64(days) / float64(targetFrequency(skill))
	score := ratio * decayRate(skill)
	status := Classify(score)

	return DerivedHealth{
		Status:       status,
		Color:        status.Color(),
		DaysSince:    &days,
		OverdueRatio: &ratio,
		DecayScore:   &score,
	}
}

func decayRate(s model.Skill) float64 {
	if s.DecayRate <= 0 {
		return model.DefaultDecayRate
	}
	return s.DecayRate
}

func targetFrequency(s model.Skill) int {
	if s.TargetFrequencyDays < 1 {
		return model.DefaultTargetFrequencyDays
	}
	return s.TargetFrequencyDays
}
