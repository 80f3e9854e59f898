package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

var created = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newSkill(name string) *model.Skill {
	return &model.Skill{
		Name:                name,
		Category:            "programming",
		DecayRate:           1.0,
		TargetFrequencyDays: 7,
		CreatedAt:           created,
	}
}

func TestInsertAndGetSkill(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	s := newSkill("Go")
	s.Notes = "generics"
	if err := db.InsertSkill(ctx, s); err != nil {
		t.Fatalf("InsertSkill: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := db.GetSkill(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSkill: %v", err)
	}
	if got == nil {
		t.Fatal("expected skill, got nil")
	}
	if got.Name != "Go" || got.Notes != "generics" || got.Category != "programming" {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.Archived {
		t.Error("new skill should not be archived")
	}
}

func TestInsertSkillKeepsID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	s := newSkill("Go")
	s.ID = "fixed-id"
	if err := db.InsertSkill(ctx, s); err != nil {
		t.Fatalf("InsertSkill: %v", err)
	}
	if s.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", s.ID)
	}

	dup := newSkill("Other")
	dup.ID = "fixed-id"
	if err := db.InsertSkill(ctx, dup); err == nil {
		t.Error("expected error inserting duplicate id")
	}
}

func TestGetSkillNotFound(t *testing.T) {
	db := testDB(t)

	s, err := db.GetSkill(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetSkill: %v", err)
	}
	if s != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestListSkillsOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	later := newSkill("Later")
	later.CreatedAt = created.Add(time.Hour)
	earlier := newSkill("Earlier")
	for _, s := range []*model.Skill{later, earlier} {
		if err := db.InsertSkill(ctx, s); err != nil {
			t.Fatalf("InsertSkill: %v", err)
		}
	}

	skills, err := db.ListSkills(ctx)
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(skills) != 2 || skills[0].Name != "Earlier" || skills[1].Name != "Later" {
		t.Errorf("ListSkills = %+v, want Earlier then Later", skills)
	}
}

func TestListSkillsEmpty(t *testing.T) {
	db := testDB(t)

	skills, err := db.ListSkills(context.Background())
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if skills == nil || len(skills) != 0 {
		t.Errorf("ListSkills = %#v, want empty non-nil slice", skills)
	}
}

func TestUpdateSkill(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	s := newSkill("Go")
	if err := db.InsertSkill(ctx, s); err != nil {
		t.Fatalf("InsertSkill: %v", err)
	}

	s.Name = "Go 1.24"
	s.DecayRate = 0.5
	s.Archived = true
	if err := db.UpdateSkill(ctx, s); err != nil {
		t.Fatalf("UpdateSkill: %v", err)
	}

	got, _ := db.GetSkill(ctx, s.ID)
	if got.Name != "Go 1.24" || got.DecayRate != 0.5 || !got.Archived {
		t.Errorf("after update = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed to %v", got.CreatedAt)
	}
}

func TestUpdateSkillNotFound(t *testing.T) {
	db := testDB(t)

	s := newSkill("Ghost")
	s.ID = "missing"
	err := db.UpdateSkill(context.Background(), s)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSkillCascades(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	keep := newSkill("Keep")
	drop := newSkill("Drop")
	for _, s := range []*model.Skill{keep, drop} {
		if err := db.InsertSkill(ctx, s); err != nil {
			t.Fatalf("InsertSkill: %v", err)
		}
	}
	for i, id := range []string{keep.ID, drop.ID, drop.ID} {
		l := &model.PracticeLog{SkillID: id, PracticedAt: created.Add(time.Duration(i) * time.Hour), CreatedAt: created}
		if err := db.InsertLog(ctx, l); err != nil {
			t.Fatalf("InsertLog: %v", err)
		}
	}

	if err := db.DeleteSkill(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteSkill: %v", err)
	}

	logs, _ := db.ListPracticeLogs(ctx)
	if len(logs) != 1 || logs[0].SkillID != keep.ID {
		t.Errorf("remaining logs = %+v, want only the kept skill's", logs)
	}
	if s, _ := db.GetSkill(ctx, drop.ID); s != nil {
		t.Error("deleted skill still present")
	}

	if err := db.DeleteSkill(ctx, drop.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteAll(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	s := newSkill("Go")
	db.InsertSkill(ctx, s)
	db.InsertLog(ctx, &model.PracticeLog{SkillID: s.ID, PracticedAt: created, CreatedAt: created})

	if err := db.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	skills, _ := db.ListSkills(ctx)
	logs, _ := db.ListPracticeLogs(ctx)
	if len(skills) != 0 || len(logs) != 0 {
		t.Errorf("after DeleteAll: %d skills, %d logs", len(skills), len(logs))
	}
}
