package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/logger"
	"github.com/lazypower/keepsharp/internal/model"
)

// Store is the persistence the engine needs. Get methods return (nil, nil)
// for unknown ids; update and delete methods return model.ErrNotFound.
type Store interface {
	ListSkills(ctx context.Context) ([]model.Skill, error)
	GetSkill(ctx context.Context, id string) (*model.Skill, error)
	InsertSkill(ctx context.Context, s *model.Skill) error
	UpdateSkill(ctx context.Context, s *model.Skill) error
	DeleteSkill(ctx context.Context, id string) error

	ListPracticeLogs(ctx context.Context) ([]model.PracticeLog, error)
	ListSkillLogs(ctx context.Context, skillID string, limit int) ([]model.PracticeLog, error)
	InsertLog(ctx context.Context, l *model.PracticeLog) error
	DeleteLog(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	SyncCategories(ctx context.Context, cats []model.Category) error
	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, s model.Settings) error

	DeleteAll(ctx context.Context) error
	WithTx(ctx context.Context, fn func(repo analytics.Repository) error) error
	Check(ctx context.Context) error
	Close() error
}

// Engine wires storage to the analytics functions and runs the alert sweep.
type Engine struct {
	Store Store
	Log   *logger.Logger
	// Now is the clock; tests replace it with a fixed time.
	Now func() time.Time

	mu        sync.RWMutex
	analyzer  *analytics.Analyzer
	scheduler *gocron.Scheduler
}

// New creates a new Engine over the seeded categories. Call Init to load
// the configured ones.
func New(st Store, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		Store:    st,
		Log:      log,
		Now:      time.Now,
		analyzer: analytics.New(model.DefaultCategories),
	}
}

// Init stores the given category set and rebuilds the analyzer from it.
// An empty set keeps whatever the store already holds, seeding the
// defaults into an empty store.
func (e *Engine) Init(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		stored, err := e.Store.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		categories = stored
		if len(categories) == 0 {
			categories = model.DefaultCategories
		}
	}
	if err := e.Store.SyncCategories(ctx, categories); err != nil {
		return fmt.Errorf("sync categories: %w", err)
	}

	e.mu.Lock()
	e.analyzer = analytics.New(categories)
	e.mu.Unlock()
	e.Log.Debug("categories loaded", "count", len(categories))
	return nil
}

func (e *Engine) getAnalyzer() *analytics.Analyzer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.analyzer
}

// snapshot loads every skill and log for a derived view.
func (e *Engine) snapshot(ctx context.Context) ([]model.Skill, []model.PracticeLog, error) {
	skills, err := e.Store.ListSkills(ctx)
	if err != nil {
		return nil, nil, err
	}
	logs, err := e.Store.ListPracticeLogs(ctx)
	if err != nil {
		return nil, nil, err
	}
	return skills, logs, nil
}

// Check reports whether storage is reachable.
func (e *Engine) Check(ctx context.Context) error {
	return e.Store.Check(ctx)
}

// Stop shuts down the engine's background jobs and waits for a running
// sweep to finish. e.mu is released first since the sweep reads it.
func (e *Engine) Stop() {
	e.mu.Lock()
	s := e.scheduler
	e.scheduler = nil
	e.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}
