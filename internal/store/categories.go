package store

import (
	"context"
	"fmt"

	"github.com/lazypower/keepsharp/internal/model"
)

// ListCategories returns the stored categories in their configured order.
func (r rw) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, icon, default_decay_rate, color FROM categories ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.DefaultDecayRate, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// SyncCategories replaces the stored category set with cats.
// Skills keep their category ids; unknown ids resolve to "other" on read.
func (r rw) SyncCategories(ctx context.Context, cats []model.Category) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for i, c := range cats {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO categories (id, name, icon, default_decay_rate, color, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, c.Name, c.Icon, c.DefaultDecayRate, c.Color, i)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}
	return nil
}
