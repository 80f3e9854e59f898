// Package localstore keeps all data in a single JSON document on disk.
// It is the storage backend for hosts without a database.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

// document is the on-disk layout.
type document struct {
	Skills       []model.Skill       `json:"skills"`
	PracticeLogs []model.PracticeLog `json:"practice_logs"`
	Categories   []model.Category    `json:"categories"`
	Settings     *model.Settings     `json:"settings,omitempty"`
}

// Store is a file-backed store. All methods are safe for concurrent use;
// writes are serialized and every mutation is flushed before returning.
type Store struct {
	Path string

	mu         sync.Mutex
	skills     map[string]model.Skill
	logs       map[string]model.PracticeLog
	categories []model.Category
	settings   model.Settings
}

// DefaultPath returns the default document path: ~/.keepsharp/keepsharp.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".keepsharp", "keepsharp.json"), nil
}

// Open loads the document at path, creating an empty store if it does not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	s := &Store{
		Path:     path,
		skills:   make(map[string]model.Skill),
		logs:     make(map[string]model.PracticeLog),
		settings: model.DefaultSettings(),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", path, err)
	}
	for _, sk := range doc.Skills {
		s.skills[sk.ID] = sk
	}
	for _, l := range doc.PracticeLogs {
		s.logs[l.ID] = l
	}
	s.categories = doc.Categories
	if doc.Settings != nil {
		s.settings = *doc.Settings
	}
	return s, nil
}

// Check reports whether the document directory is reachable.
func (s *Store) Check(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.Path))
	return err
}

// Close is a no-op; every mutation is already on disk.
func (s *Store) Close() error { return nil }

// save writes the document atomically. Callers hold s.mu.
func (s *Store) save() error {
	doc := document{
		Skills:       s.sortedSkills(),
		PracticeLogs: s.sortedLogs(""),
		Categories:   s.categories,
		Settings:     &s.settings,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".keepsharp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (s *Store) sortedSkills() []model.Skill {
	out := make([]model.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		out = append(out, sk)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// sortedLogs returns logs most recent first, filtered to skillID when set.
func (s *Store) sortedLogs(skillID string) []model.PracticeLog {
	out := make([]model.PracticeLog, 0, len(s.logs))
	for _, l := range s.logs {
		if skillID == "" || l.SkillID == skillID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PracticedAt.Equal(out[j].PracticedAt) {
			return out[i].PracticedAt.After(out[j].PracticedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// mutate applies fn under the lock and persists the result. On failure the
// in-memory state is rolled back so memory and disk stay identical.
func (s *Store) mutate(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&state{s}); err != nil {
		s.restore(snap)
		return err
	}
	if err := s.save(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	skills     map[string]model.Skill
	logs       map[string]model.PracticeLog
	categories []model.Category
	settings   model.Settings
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		skills:     make(map[string]model.Skill, len(s.skills)),
		logs:       make(map[string]model.PracticeLog, len(s.logs)),
		categories: append([]model.Category(nil), s.categories...),
		settings:   s.settings,
	}
	for k, v := range s.skills {
		snap.skills[k] = v
	}
	for k, v := range s.logs {
		snap.logs[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.skills = snap.skills
	s.logs = snap.logs
	s.categories = snap.categories
	s.settings = snap.settings
}

// WithTx runs fn against the store with all writes held back until fn
// succeeds. If fn fails nothing is written.
func (s *Store) WithTx(ctx context.Context, fn func(repo analytics.Repository) error) error {
	return s.mutate(func(st *state) error { return fn(st) })
}

// ListSkills returns every skill, archived included, oldest first.
func (s *Store) ListSkills(ctx context.Context) ([]model.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSkills(), nil
}

// GetSkill returns a skill by id, or nil if it does not exist.
func (s *Store) GetSkill(ctx context.Context, id string) (*model.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk, ok := s.skills[id]
	if !ok {
		return nil, nil
	}
	return &sk, nil
}

// InsertSkill stores a new skill, assigning an id when sk.ID is empty.
func (s *Store) InsertSkill(ctx context.Context, sk *model.Skill) error {
	return s.mutate(func(st *state) error { return st.InsertSkill(ctx, sk) })
}

// UpdateSkill overwrites the mutable fields of an existing skill.
func (s *Store) UpdateSkill(ctx context.Context, sk *model.Skill) error {
	return s.mutate(func(st *state) error {
		prev, ok := st.skills[sk.ID]
		if !ok {
			return fmt.Errorf("skill %s: %w", sk.ID, model.ErrNotFound)
		}
		next := *sk
		next.CreatedAt = prev.CreatedAt
		st.skills[sk.ID] = next
		return nil
	})
}

// DeleteSkill removes a skill and all of its practice logs.
func (s *Store) DeleteSkill(ctx context.Context, id string) error {
	return s.mutate(func(st *state) error {
		if _, ok := st.skills[id]; !ok {
			return fmt.Errorf("skill %s: %w", id, model.ErrNotFound)
		}
		delete(st.skills, id)
		for lid, l := range st.logs {
			if l.SkillID == id {
				delete(st.logs, lid)
			}
		}
		return nil
	})
}

// DeleteAll removes every skill and practice log.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.mutate(func(st *state) error { return st.DeleteAll(ctx) })
}

// ListPracticeLogs returns every practice log, most recent first.
func (s *Store) ListPracticeLogs(ctx context.Context) ([]model.PracticeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLogs(""), nil
}

// ListSkillLogs returns the logs of one skill, most recent first.
// A limit of zero or less returns all of them.
func (s *Store) ListSkillLogs(ctx context.Context, skillID string, limit int) ([]model.PracticeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.sortedLogs(skillID)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// InsertLog stores a practice log, assigning an id when l.ID is empty.
func (s *Store) InsertLog(ctx context.Context, l *model.PracticeLog) error {
	return s.mutate(func(st *state) error { return st.InsertLog(ctx, l) })
}

// DeleteLog removes a single practice log.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	return s.mutate(func(st *state) error {
		if _, ok := st.logs[id]; !ok {
			return fmt.Errorf("log %s: %w", id, model.ErrNotFound)
		}
		delete(st.logs, id)
		return nil
	})
}

// ListCategories returns the stored categories in their configured order.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category{}, s.categories...), nil
}

// SyncCategories replaces the stored category set with cats.
func (s *Store) SyncCategories(ctx context.Context, cats []model.Category) error {
	return s.mutate(func(st *state) error {
		st.categories = append([]model.Category{}, cats...)
		return nil
	})
}

// GetSettings returns the stored settings.
func (s *Store) GetSettings(ctx context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

// UpdateSettings saves settings.
func (s *Store) UpdateSettings(ctx context.Context, settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		st.settings = settings
		return nil
	})
}

// state is the lock-held view handed to mutations and transactions.
type state struct {
	*Store
}

func (st *state) ListSkills(ctx context.Context) ([]model.Skill, error) {
	return st.sortedSkills(), nil
}

func (st *state) ListPracticeLogs(ctx context.Context) ([]model.PracticeLog, error) {
	return st.sortedLogs(""), nil
}

func (st *state) InsertSkill(ctx context.Context, sk *model.Skill) error {
	if sk.ID == "" {
		sk.ID = uuid.NewString()
	}
	if _, dup := st.skills[sk.ID]; dup {
		return fmt.Errorf("insert skill: id %s already exists", sk.ID)
	}
	if err := sk.Validate(); err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}
	st.skills[sk.ID] = *sk
	return nil
}

func (st *state) InsertLog(ctx context.Context, l *model.PracticeLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if _, dup := st.logs[l.ID]; dup {
		return fmt.Errorf("insert log: id %s already exists", l.ID)
	}
	if _, ok := st.skills[l.SkillID]; !ok {
		return fmt.Errorf("insert log: skill %s: %w", l.SkillID, model.ErrNotFound)
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	st.logs[l.ID] = *l
	return nil
}

// UpdateSettings replaces the settings in place; Store.UpdateSettings
// would take the lock the transaction already holds.
func (st *state) UpdateSettings(ctx context.Context, settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	st.settings = settings
	return nil
}

func (st *state) DeleteAll(ctx context.Context) error {
	st.skills = make(map[string]model.Skill)
	st.logs = make(map[string]model.PracticeLog)
	return nil
}
