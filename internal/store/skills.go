package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lazypower/keepsharp/internal/model"
)

const skillColumns = `id, name, category, decay_rate, target_frequency_days, notes, archived, created_at`

func scanSkill(row scanner) (model.Skill, error) {
	var s model.Skill
	var archived int
	var createdAt int64
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.DecayRate, &s.TargetFrequencyDays, &s.Notes, &archived, &createdAt)
	s.Archived = archived != 0
	s.CreatedAt = fromMillis(createdAt)
	return s, err
}

// ListSkills returns every skill, archived included, oldest first.
func (r rw) ListSkills(ctx context.Context) ([]model.Skill, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	skills := []model.Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// GetSkill returns a skill by id, or nil if it does not exist.
func (r rw) GetSkill(ctx context.Context, id string) (*model.Skill, error) {
	s, err := scanSkill(r.q.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return &s, nil
}

// InsertSkill stores a new skill, assigning an id when s.ID is empty.
func (r rw) InsertSkill(ctx context.Context, s *model.Skill) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO skills (`+skillColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Category, s.DecayRate, s.TargetFrequencyDays, s.Notes, boolInt(s.Archived), toMillis(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}
	return nil
}

// UpdateSkill overwrites the mutable fields of an existing skill.
func (r rw) UpdateSkill(ctx context.Context, s *model.Skill) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE skills SET name = ?, category = ?, decay_rate = ?, target_frequency_days = ?, notes = ?, archived = ?
		WHERE id = ?
	`, s.Name, s.Category, s.DecayRate, s.TargetFrequencyDays, s.Notes, boolInt(s.Archived), s.ID)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("skill %s: %w", s.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteSkill removes a skill and all of its practice logs.
func (r rw) DeleteSkill(ctx context.Context, id string) error {
	// Logs first so the delete holds even with foreign_keys off.
	if _, err := r.q.ExecContext(ctx, `DELETE FROM practice_logs WHERE skill_id = ?`, id); err != nil {
		return fmt.Errorf("delete skill logs: %w", err)
	}
	result, err := r.q.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("skill %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every skill and practice log.
func (r rw) DeleteAll(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM practice_logs`); err != nil {
		return fmt.Errorf("delete all logs: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM skills`); err != nil {
		return fmt.Errorf("delete all skills: %w", err)
	}
	return nil
}
