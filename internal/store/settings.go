package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lazypower/keepsharp/internal/model"
)

// GetSettings returns the stored settings, or the defaults if none were saved.
func (r rw) GetSettings(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	err := r.q.QueryRowContext(ctx, `
		SELECT default_target_frequency, theme FROM settings WHERE id = 1
	`).Scan(&s.DefaultTargetFrequency, &s.Theme)
	if err == sql.ErrNoRows {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return s, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// UpdateSettings saves s.
func (r rw) UpdateSettings(ctx context.Context, s model.Settings) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO settings (id, default_target_frequency, theme) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET default_target_frequency = excluded.default_target_frequency, theme = excluded.theme
	`, s.DefaultTargetFrequency, s.Theme)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
