package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

// memRepo is a minimal Repository backed by slices.
type memRepo struct {
	skills   []model.Skill
	logs     []model.PracticeLog
	settings *model.Settings
	nextID   int
}

func (m *memRepo) ListSkills(ctx context.Context) ([]model.Skill, error) {
	return append([]model.Skill{}, m.skills...), nil
}

func (m *memRepo) ListPracticeLogs(ctx context.Context) ([]model.PracticeLog, error) {
	return append([]model.PracticeLog{}, m.logs...), nil
}

func (m *memRepo) InsertSkill(ctx context.Context, s *model.Skill) error {
	if s.ID == "" {
		m.nextID++
		s.ID = fmt.Sprintf("gen-skill-%d", m.nextID)
	}
	m.skills = append(m.skills, *s)
	return nil
}

func (m *memRepo) InsertLog(ctx context.Context, l *model.PracticeLog) error {
	if l.ID == "" {
		m.nextID++
		l.ID = fmt.Sprintf("gen-log-%d", m.nextID)
	}
	m.logs = append(m.logs, *l)
	return nil
}

func (m *memRepo) DeleteAll(ctx context.Context) error {
	m.skills = nil
	m.logs = nil
	return nil
}

func (m *memRepo) UpdateSettings(ctx context.Context, s model.Settings) error {
	m.settings = &s
	return nil
}

func sampleBundle() model.Bundle {
	skills := []model.Skill{
		skill("s1", "Go", 1.0, 7),
		skill("s2", "Spanish", 1.2, 3),
	}
	logs := []model.PracticeLog{
		practice("l1", "s1", daysAgo(1), 30),
		practice("l2", "s1", daysAgo(3), 45),
		practice("l3", "s2", daysAgo(2), 0),
	}
	logs[2].Quality = intPtr(4)
	logs[2].Notes = "subjunctive drills"
	return ExportBundle(skills, logs, model.DefaultCategories, model.DefaultSettings(), fixedNow)
}

func TestExportBundle(t *testing.T) {
	b := sampleBundle()
	if b.Version != model.BundleVersion {
		t.Errorf("Version = %d, want %d", b.Version, model.BundleVersion)
	}
	if !b.ExportedAt.Equal(fixedNow) {
		t.Errorf("ExportedAt = %v, want %v", b.ExportedAt, fixedNow)
	}
	if len(b.Skills) != 2 || len(b.PracticeLogs) != 3 || len(b.Categories) != 7 {
		t.Errorf("bundle sizes = %d/%d/%d, want 2/3/7", len(b.Skills), len(b.PracticeLogs), len(b.Categories))
	}
	if b.Settings == nil || b.Settings.DefaultTargetFrequency != 7 {
		t.Errorf("Settings = %+v, want defaults", b.Settings)
	}

	empty := ExportBundle(nil, nil, nil, model.DefaultSettings(), fixedNow)
	data, _ := json.Marshal(empty)
	var raw map[string]any
	json.Unmarshal(data, &raw)
	if _, ok := raw["skills"].([]any); !ok {
		t.Errorf("empty export skills = %v, want []", raw["skills"])
	}
}

func TestImportMergeRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := sampleBundle()
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := DecodeBundle(data)
	if err != nil {
		t.Fatalf("DecodeBundle: %v", err)
	}

	repo := &memRepo{}
	res, err := ImportBundle(ctx, repo, &decoded.Bundle, model.ImportMerge, fixedNow)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	if res.SkillsImported != 2 || res.LogsImported != 3 {
		t.Errorf("result = %+v, want 2 skills 3 logs", res)
	}

	for i, s := range repo.skills {
		want := b.Skills[i]
		if s.ID != want.ID || s.Name != want.Name || s.DecayRate != want.DecayRate ||
			s.TargetFrequencyDays != want.TargetFrequencyDays || !s.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("skill[%d] = %+v, want %+v", i, s, want)
		}
	}
	for i, l := range repo.logs {
		want := b.PracticeLogs[i]
		if l.ID != want.ID || l.SkillID != want.SkillID || !l.PracticedAt.Equal(want.PracticedAt) ||
			l.Minutes() != want.Minutes() || l.Notes != want.Notes {
			t.Errorf("log[%d] = %+v, want %+v", i, l, want)
		}
	}

	again, err := ImportBundle(ctx, repo, &decoded.Bundle, model.ImportMerge, fixedNow)
	if err != nil {
		t.Fatalf("second ImportBundle: %v", err)
	}
	if again.SkillsImported != 0 || again.LogsImported != 0 {
		t.Errorf("second import = %+v, want nothing imported", again)
	}
	if len(repo.skills) != 2 || len(repo.logs) != 3 {
		t.Errorf("repo grew to %d skills, %d logs", len(repo.skills), len(repo.logs))
	}
}

func TestImportMergeMapsByName(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{
		skills: []model.Skill{skill("existing-go", "  Go ", 1, 7)},
		logs:   []model.PracticeLog{practice("old", "existing-go", daysAgo(1), 30)},
	}
	b := sampleBundle()

	res, err := ImportBundle(ctx, repo, &b, model.ImportMerge, fixedNow)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	if res.SkillsImported != 1 || res.SkillsSkipped != 1 {
		t.Errorf("skills imported/skipped = %d/%d, want 1/1", res.SkillsImported, res.SkillsSkipped)
	}
	// l1 duplicates the existing log's timestamp on the mapped skill.
	if res.LogsImported != 2 || res.LogsSkipped != 1 {
		t.Errorf("logs imported/skipped = %d/%d, want 2/1", res.LogsImported, res.LogsSkipped)
	}
	for _, l := range repo.logs {
		if l.SkillID == "s1" {
			t.Errorf("log %s still references bundle id s1, want existing-go", l.ID)
		}
	}
}

func TestImportMergeKeepsCaseDistinctNames(t *testing.T) {
	ctx := context.Background()
	skills := []model.Skill{
		skill("a", "Go", 1, 7),
		skill("b", "go", 1, 7),
	}
	logs := []model.PracticeLog{
		practice("la", "a", daysAgo(1), 20),
		practice("lb", "b", daysAgo(2), 40),
	}
	b := ExportBundle(skills, logs, nil, model.DefaultSettings(), fixedNow)

	repo := &memRepo{}
	res, err := ImportBundle(ctx, repo, &b, model.ImportMerge, fixedNow)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	want := model.ImportResult{SkillsImported: 2, LogsImported: 2}
	if res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}
	if len(repo.skills) != 2 {
		t.Fatalf("skills = %d, want 2", len(repo.skills))
	}
	for _, l := range repo.logs {
		if (l.ID == "la" && l.SkillID != "a") || (l.ID == "lb" && l.SkillID != "b") {
			t.Errorf("log %s moved to skill %s", l.ID, l.SkillID)
		}
	}

	existing := &memRepo{skills: []model.Skill{skill("x", "GO", 1, 7)}}
	res, err = ImportBundle(ctx, existing, &b, model.ImportMerge, fixedNow)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	if res.SkillsImported != 2 || res.SkillsSkipped != 0 {
		t.Errorf("into GO store = %+v, want both imported", res)
	}
}

func TestImportReplace(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{
		skills: []model.Skill{skill("old", "Old skill", 1, 7)},
		logs:   []model.PracticeLog{practice("old-log", "old", daysAgo(1), 10)},
	}
	b := sampleBundle()
	b.PracticeLogs = append(b.PracticeLogs, practice("dangling", "missing-skill", daysAgo(1), 5))

	res, err := ImportBundle(ctx, repo, &b, model.ImportReplace, fixedNow)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	if res.SkillsImported != 2 || res.LogsImported != 3 || res.LogsSkipped != 1 {
		t.Errorf("result = %+v, want 2 skills, 3 logs, 1 skipped", res)
	}
	if len(repo.skills) != 2 || len(repo.logs) != 3 {
		t.Fatalf("repo = %d skills, %d logs, want 2/3", len(repo.skills), len(repo.logs))
	}
	for _, s := range repo.skills {
		if s.ID == "old" {
			t.Error("prior skill survived replace")
		}
	}
}

func TestImportSkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	b := model.Bundle{
		Skills: []model.Skill{
			{ID: "blank", Name: "   "},
			{ID: "neg", Name: "Negative", DecayRate: -1},
			{ID: "ok", Name: "Defaults"},
		},
		PracticeLogs: []model.PracticeLog{
			{ID: "q", SkillID: "ok", PracticedAt: daysAgo(1), Quality: intPtr(9)},
			{ID: "d", SkillID: "ok", PracticedAt: daysAgo(1), DurationMinutes: intPtr(-5)},
			{ID: "z", SkillID: "ok"},
			{ID: "b", SkillID: "blank", PracticedAt: daysAgo(1)},
			{ID: "good", SkillID: "ok", PracticedAt: daysAgo(2)},
		},
	}
	repo := &memRepo{}
	res, err := ImportBundle(ctx, repo, &b, model.ImportMerge, fixedNow)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	want := model.ImportResult{SkillsImported: 1, LogsImported: 1, SkillsSkipped: 2, LogsSkipped: 4}
	if res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}
	s := repo.skills[0]
	if s.Category != model.DefaultCategory || s.DecayRate != 1.0 || s.TargetFrequencyDays != 7 {
		t.Errorf("defaults not applied: %+v", s)
	}
	if !s.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want now", s.CreatedAt)
	}
}

func TestImportReassignsTakenIDs(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{
		skills: []model.Skill{skill("s1", "Unrelated", 1, 7)},
	}
	b := sampleBundle()
	res, err := ImportBundle(ctx, repo, &b, model.ImportMerge, fixedNow)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	if res.SkillsImported != 2 {
		t.Fatalf("SkillsImported = %d, want 2", res.SkillsImported)
	}
	var goID string
	for _, s := range repo.skills {
		if s.Name == "Go" {
			goID = s.ID
		}
	}
	if goID == "" || goID == "s1" {
		t.Fatalf("Go skill id = %q, want a fresh id", goID)
	}
	n := 0
	for _, l := range repo.logs {
		if l.SkillID == goID {
			n++
		}
	}
	if n != 2 {
		t.Errorf("logs remapped to new Go id = %d, want 2", n)
	}
}

func TestDecodeBundleMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"array top", `[1,2,3]`},
		{"null", `null`},
		{"missing skills", `{"practice_logs": []}`},
		{"missing logs", `{"skills": []}`},
		{"skills not array", `{"skills": {}, "practice_logs": []}`},
		{"skills null", `{"skills": null, "practice_logs": []}`},
	}
	for _, tt := range tests {
		_, err := DecodeBundle([]byte(tt.data))
		if !errors.Is(err, model.ErrMalformedImport) {
			t.Errorf("%s: err = %v, want ErrMalformedImport", tt.name, err)
		}
	}
}

func TestDecodeBundleSkipsBadRecords(t *testing.T) {
	data := `{
		"version": 1,
		"skills": [{"id": "a", "name": "Go"}, {"id": 42, "name": "bad id type"}, "nonsense"],
		"logs": [{"id": "x", "skill_id": "a", "practiced_at": "2025-03-11T10:00:00Z"}, {"practiced_at": 12345}],
		"settings": {"default_target_frequency": 5, "theme": "dark"}
	}`
	d, err := DecodeBundle([]byte(data))
	if err != nil {
		t.Fatalf("DecodeBundle: %v", err)
	}
	if len(d.Bundle.Skills) != 1 || d.SkillsSkipped != 2 {
		t.Errorf("skills = %d skipped %d, want 1/2", len(d.Bundle.Skills), d.SkillsSkipped)
	}
	if len(d.Bundle.PracticeLogs) != 1 || d.LogsSkipped != 1 {
		t.Errorf("logs = %d skipped %d, want 1/1", len(d.Bundle.PracticeLogs), d.LogsSkipped)
	}
	if d.Bundle.Settings == nil || d.Bundle.Settings.Theme != "dark" {
		t.Errorf("settings = %+v, want dark theme", d.Bundle.Settings)
	}
	want := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	if !d.Bundle.PracticeLogs[0].PracticedAt.Equal(want) {
		t.Errorf("practiced_at = %v, want %v", d.Bundle.PracticeLogs[0].PracticedAt, want)
	}
}

func TestImportBundleRejectsBadMode(t *testing.T) {
	b := sampleBundle()
	_, err := ImportBundle(context.Background(), &memRepo{}, &b, "overwrite", fixedNow)
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}
