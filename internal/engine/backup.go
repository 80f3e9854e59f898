package engine

import (
	"context"
	"fmt"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

// Export snapshots all data into a bundle.
func (e *Engine) Export(ctx context.Context) (model.Bundle, error) {
	skills, logs, err := e.snapshot(ctx)
	if err != nil {
		return model.Bundle{}, err
	}
	cats, err := e.Store.ListCategories(ctx)
	if err != nil {
		return model.Bundle{}, err
	}
	settings, err := e.Store.GetSettings(ctx)
	if err != nil {
		return model.Bundle{}, err
	}
	return analytics.ExportBundle(skills, logs, cats, settings, e.Now()), nil
}

// Import reconciles a decoded bundle into storage in one transaction.
// Records skipped during decoding are added to the result counts. In
// replace mode valid bundle settings replace the stored ones.
func (e *Engine) Import(ctx context.Context, d *analytics.Decoded, mode model.ImportMode) (model.ImportResult, error) {
	if d == nil {
		return model.ImportResult{}, fmt.Errorf("%w: empty bundle", model.ErrMalformedImport)
	}
	mode, err := model.ParseImportMode(string(mode))
	if err != nil {
		return model.ImportResult{}, err
	}

	var res model.ImportResult
	err = e.Store.WithTx(ctx, func(repo analytics.Repository) error {
		var err error
		res, err = analytics.ImportBundle(ctx, repo, &d.Bundle, mode, e.Now())
		if err != nil {
			return err
		}
		if mode != model.ImportReplace || d.Bundle.Settings == nil {
			return nil
		}
		if s := *d.Bundle.Settings; s.Validate() != nil {
			e.Log.Warn("import: ignoring invalid settings", "settings", s)
			return nil
		}
		if err := repo.UpdateSettings(ctx, *d.Bundle.Settings); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("import: %w", err)
	}
	res.SkillsSkipped += d.SkillsSkipped
	res.LogsSkipped += d.LogsSkipped

	e.Log.Info("import complete",
		"mode", mode,
		"skills_imported", res.SkillsImported,
		"logs_imported", res.LogsImported,
		"skills_skipped", res.SkillsSkipped,
		"logs_skipped", res.LogsSkipped,
	)
	return res, nil
}
