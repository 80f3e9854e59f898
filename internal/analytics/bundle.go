package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// Repository is the write capability an import needs from a backing store.
// Insert methods assign a fresh id when the record's ID is empty.
type Repository interface {
	ListSkills(ctx context.Context) ([]model.Skill, error)
	ListPracticeLogs(ctx context.Context) ([]model.PracticeLog, error)
	InsertSkill(ctx context.Context, s *model.Skill) error
	InsertLog(ctx context.Context, l *model.PracticeLog) error
	DeleteAll(ctx context.Context) error
	UpdateSettings(ctx context.Context, s model.Settings) error
}

// ExportBundle snapshots skills, logs, categories and settings. It has no side effects.
func ExportBundle(skills []model.Skill, logs []model.PracticeLog, categories []model.Category, settings model.Settings, now time.Time) model.Bundle {
	b := model.Bundle{
		Version:      model.BundleVersion,
		ExportedAt:   now,
		Skills:       append([]model.Skill{}, skills...),
		PracticeLogs: append([]model.PracticeLog{}, logs...),
		Categories:   append([]model.Category{}, categories...),
		Settings:     &settings,
	}
	return b
}

// Decoded is a bundle plus the number of records that could not be decoded.
type Decoded struct {
	Bundle        model.Bundle
	SkillsSkipped int
	LogsSkipped   int
}

// DecodeBundle parses a JSON backup. The top level must be an object with
// "skills" and "practice_logs" (or "logs") arrays, otherwise it fails with
// model.ErrMalformedImport. Records that fail to decode are skipped and counted.
func DecodeBundle(data []byte) (*Decoded, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedImport, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: bundle is not an object", model.ErrMalformedImport)
	}

	rawSkills, err := rawArray(top, "skills")
	if err != nil {
		return nil, err
	}
	rawLogs, err := rawArray(top, "practice_logs", "logs")
	if err != nil {
		return nil, err
	}

	d := &Decoded{}
	d.Bundle.Skills = make([]model.Skill, 0, len(rawSkills))
	for _, raw := range rawSkills {
		var s model.Skill
		if err := json.Unmarshal(raw, &s); err != nil {
			d.SkillsSkipped++
			continue
		}
		d.Bundle.Skills = append(d.Bundle.Skills, s)
	}
	d.Bundle.PracticeLogs = make([]model.PracticeLog, 0, len(rawLogs))
	for _, raw := range rawLogs {
		var l model.PracticeLog
		if err := json.Unmarshal(raw, &l); err != nil {
			d.LogsSkipped++
			continue
		}
		d.Bundle.PracticeLogs = append(d.Bundle.PracticeLogs, l)
	}

	// Optional metadata; a bad value is ignored rather than failing the import.
	if raw, ok := top["version"]; ok {
		json.Unmarshal(raw, &d.Bundle.Version)
	}
	if raw, ok := top["exported_at"]; ok {
		json.Unmarshal(raw, &d.Bundle.ExportedAt)
	}
	if raw, ok := top["categories"]; ok {
		json.Unmarshal(raw, &d.Bundle.Categories)
	}
	if raw, ok := top["settings"]; ok && !isNull(raw) {
		var s model.Settings
		if json.Unmarshal(raw, &s) == nil {
			d.Bundle.Settings = &s
		}
	}
	return d, nil
}

func rawArray(top map[string]json.RawMessage, keys ...string) ([]json.RawMessage, error) {
	for _, k := range keys {
		raw, ok := top[k]
		if !ok {
			continue
		}
		var arr []json.RawMessage
		if isNull(raw) || json.Unmarshal(raw, &arr) != nil {
			return nil, fmt.Errorf("%w: %q is not an array", model.ErrMalformedImport, k)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: missing %q", model.ErrMalformedImport, keys[0])
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// nameKey compares names exactly once surrounding space is dropped; "Go"
// and "go" are different skills.
func nameKey(name string) string {
	return strings.TrimSpace(name)
}

// ImportBundle reconciles a bundle into repo.
//
// In replace mode all existing skills and logs are deleted first. In merge
// mode a skill whose name already exists maps onto the existing skill, and a
// log is skipped when its skill already has one at the same instant.
// Incoming ids are kept when they are free in the target. Invalid records
// and logs whose skill could not be mapped are skipped and counted; only
// storage failures are returned as errors.
func ImportBundle(ctx context.Context, repo Repository, b *model.Bundle, mode model.ImportMode, now time.Time) (model.ImportResult, error) {
	var res model.ImportResult
	if b == nil {
		return res, fmt.Errorf("%w: empty bundle", model.ErrMalformedImport)
	}
	mode, err := model.ParseImportMode(string(mode))
	if err != nil {
		return res, err
	}

	if mode == model.ImportReplace {
		if err := repo.DeleteAll(ctx); err != nil {
			return res, fmt.Errorf("clear for replace: %w", err)
		}
	}

	existingSkills, err := repo.ListSkills(ctx)
	if err != nil {
		return res, fmt.Errorf("list skills: %w", err)
	}
	existingLogs, err := repo.ListPracticeLogs(ctx)
	if err != nil {
		return res, fmt.Errorf("list logs: %w", err)
	}

	byName := make(map[string]string, len(existingSkills))
	skillIDs := make(map[string]bool, len(existingSkills))
	for _, s := range existingSkills {
		byName[nameKey(s.Name)] = s.ID
		skillIDs[s.ID] = true
	}
	logIDs := make(map[string]bool, len(existingLogs))
	seen := make(map[string]map[int64]bool)
	markSeen := func(skillID string, at time.Time) {
		if seen[skillID] == nil {
			seen[skillID] = make(map[int64]bool)
		}
		seen[skillID][at.UnixMilli()] = true
	}
	for _, l := range existingLogs {
		logIDs[l.ID] = true
		markSeen(l.SkillID, l.PracticedAt)
	}

	idMap := make(map[string]string, len(b.Skills))
	for _, in := range b.Skills {
		s, ok := normalizeSkill(in, now)
		if !ok {
			res.SkillsSkipped++
			continue
		}
		if mode == model.ImportMerge {
			if id, dup := byName[nameKey(s.Name)]; dup {
				if in.ID != "" {
					idMap[in.ID] = id
				}
				res.SkillsSkipped++
				continue
			}
		}
		if s.ID != "" && skillIDs[s.ID] {
			s.ID = ""
		}
		if err := repo.InsertSkill(ctx, &s); err != nil {
			return res, fmt.Errorf("import skill %q: %w", s.Name, err)
		}
		skillIDs[s.ID] = true
		byName[nameKey(s.Name)] = s.ID
		if in.ID != "" {
			idMap[in.ID] = s.ID
		}
		res.SkillsImported++
	}

	for _, in := range b.PracticeLogs {
		skillID, ok := idMap[in.SkillID]
		if !ok || in.PracticedAt.IsZero() {
			res.LogsSkipped++
			continue
		}
		l := in
		l.SkillID = skillID
		if l.Validate() != nil {
			res.LogsSkipped++
			continue
		}
		if mode == model.ImportMerge && seen[skillID][l.PracticedAt.UnixMilli()] {
			res.LogsSkipped++
			continue
		}
		if l.ID != "" && logIDs[l.ID] {
			l.ID = ""
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = l.PracticedAt
		}
		if err := repo.InsertLog(ctx, &l); err != nil {
			return res, fmt.Errorf("import log for skill %s: %w", skillID, err)
		}
		logIDs[l.ID] = true
		markSeen(skillID, l.PracticedAt)
		res.LogsImported++
	}

	return res, nil
}

// normalizeSkill fills missing fields with defaults and rejects invalid records.
func normalizeSkill(s model.Skill, now time.Time) (model.Skill, bool) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Category == "" {
		s.Category = model.DefaultCategory
	}
	if s.DecayRate == 0 {
		s.DecayRate = model.DefaultDecayRate
	}
	if s.TargetFrequencyDays == 0 {
		s.TargetFrequencyDays = model.DefaultTargetFrequencyDays
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.Validate() != nil {
		return s, false
	}
	return s, true
}
