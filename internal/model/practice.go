package model

import "time"

const (
	MinQuality = 1
	MaxQuality = 5
)

// PracticeLog records a single practice session. Logs are never mutated.
type PracticeLog struct {
	ID              string    `json:"id"`
	SkillID         string    `json:"skill_id"`
	PracticedAt     time.Time `json:"practiced_at"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Quality         *int      `json:"quality,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Minutes returns the logged duration, or 0 when none was recorded.
func (l *PracticeLog) Minutes() int {
	if l.DurationMinutes == nil {
		return 0
	}
	return *l.DurationMinutes
}

// Validate checks duration and quality bounds.
func (l *PracticeLog) Validate() error {
	if l.SkillID == "" {
		return invalid("skill_id", "required")
	}
	if l.DurationMinutes != nil && *l.DurationMinutes < 0 {
		return invalid("duration_minutes", "must not be negative")
	}
	if l.Quality != nil && (*l.Quality < MinQuality || *l.Quality > MaxQuality) {
		return invalid("quality", "must be between 1 and 5")
	}
	return nil
}

// LogInput carries the fields accepted when logging practice.
type LogInput struct {
	PracticedAt     *time.Time `json:"practiced_at,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Quality         *int       `json:"quality,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}
