package cli

import (
	"context"
	"fmt"

	"github.com/lazypower/keepsharp/internal/config"
	"github.com/lazypower/keepsharp/internal/engine"
	"github.com/lazypower/keepsharp/internal/localstore"
	"github.com/lazypower/keepsharp/internal/logger"
	"github.com/lazypower/keepsharp/internal/store"
)

// openStore opens the storage backend selected by storage.driver.
func openStore(c *config.Config) (engine.Store, string, error) {
	path := c.Storage.Path

	switch c.Storage.Driver {
	case config.DriverFile:
		if path == "" {
			p, err := localstore.DefaultPath()
			if err != nil {
				return nil, "", fmt.Errorf("resolve storage path: %w", err)
			}
			path = p
		}
		st, err := localstore.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open file store: %w", err)
		}
		return st, path, nil
	default:
		if path == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, "", fmt.Errorf("resolve db path: %w", err)
			}
			path = p
		}
		db, err := store.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open database: %w", err)
		}
		return db, path, nil
	}
}

// openEngine builds a ready engine from the loaded config. The returned
// close func stops background jobs and releases storage.
func openEngine(ctx context.Context, log *logger.Logger) (*engine.Engine, func(), error) {
	st, path, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(st, log)
	if err := eng.Init(ctx, cfg.CategoryList()); err != nil {
		st.Close()
		return nil, nil, err
	}
	log.Debug("storage opened", "driver", cfg.Storage.Driver, "path", path)

	return eng, func() {
		eng.Stop()
		st.Close()
	}, nil
}

// cliLogger logs warnings and errors only so command output stays readable.
func cliLogger() *logger.Logger {
	log, err := logger.New(cfg.Log.Mode, "warn")
	if err != nil {
		return logger.Nop()
	}
	return log
}
