package model

import (
	"strings"
	"time"
)

const (
	DefaultCategory            = "other"
	DefaultDecayRate           = 1.0
	DefaultTargetFrequencyDays = 7
)

// Skill is a user-defined ability whose health decays without practice.
type Skill struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	DecayRate           float64   `json:"decay_rate"`
	TargetFrequencyDays int       `json:"target_frequency_days"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	Archived            bool      `json:"archived"`
}

// Validate checks the invariants every stored skill must satisfy.
func (s *Skill) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name", "required")
	}
	if s.DecayRate <= 0 {
		return invalid("decay_rate", "must be positive")
	}
	if s.TargetFrequencyDays < 1 {
		return invalid("target_frequency_days", "must be at least 1")
	}
	return nil
}

// SkillInput carries the fields accepted when creating a skill.
// Nil pointers fall back to category and settings defaults.
type SkillInput struct {
	Name                string   `json:"name"`
	Category            string   `json:"category,omitempty"`
	DecayRate           *float64 `json:"decay_rate,omitempty"`
	TargetFrequencyDays *int     `json:"target_frequency_days,omitempty"`
	Notes               string   `json:"notes,omitempty"`
}

// SkillPatch is a partial update; unset fields keep their prior value.
type SkillPatch struct {
	Name                *string  `json:"name,omitempty"`
	Category            *string  `json:"category,omitempty"`
	DecayRate           *float64 `json:"decay_rate,omitempty"`
	TargetFrequencyDays *int     `json:"target_frequency_days,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	Archived            *bool    `json:"archived,omitempty"`
}

// Apply returns a copy of s with the patch applied, validated.
func (p SkillPatch) Apply(s Skill) (Skill, error) {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		s.Category = strings.TrimSpace(*p.Category)
		if s.Category == "" {
			s.Category = DefaultCategory
		}
	}
	if p.DecayRate != nil {
		s.DecayRate = *p.DecayRate
	}
	if p.TargetFrequencyDays != nil {
		s.TargetFrequencyDays = *p.TargetFrequencyDays
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.Archived != nil {
		s.Archived = *p.Archived
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
