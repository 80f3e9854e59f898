package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

func TestSettingsDefaults(t *testing.T) {
	db := testDB(t)

	s, err := db.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if s != model.DefaultSettings() {
		t.Errorf("GetSettings = %+v, want defaults", s)
	}
}

func TestUpdateSettings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	want := model.Settings{DefaultTargetFrequency: 3, Theme: "dark"}
	if err := db.UpdateSettings(ctx, want); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	got, _ := db.GetSettings(ctx)
	if got != want {
		t.Errorf("GetSettings = %+v, want %+v", got, want)
	}

	if err := db.UpdateSettings(ctx, model.Settings{DefaultTargetFrequency: 3, Theme: "neon"}); err == nil {
		t.Error("expected check constraint error for unknown theme")
	}
}

func TestSyncCategories(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SyncCategories(ctx, model.DefaultCategories); err != nil {
		t.Fatalf("SyncCategories: %v", err)
	}
	cats, err := db.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != len(model.DefaultCategories) {
		t.Fatalf("len = %d, want %d", len(cats), len(model.DefaultCategories))
	}
	for i, c := range cats {
		if c != model.DefaultCategories[i] {
			t.Errorf("cats[%d] = %+v, want %+v", i, c, model.DefaultCategories[i])
		}
	}

	// A second sync replaces rather than appends.
	custom := []model.Category{{ID: "other", Name: "Misc", DefaultDecayRate: 2}}
	if err := db.SyncCategories(ctx, custom); err != nil {
		t.Fatalf("SyncCategories: %v", err)
	}
	cats, _ = db.ListCategories(ctx)
	if len(cats) != 1 || cats[0].Name != "Misc" {
		t.Errorf("after resync = %+v", cats)
	}
}

func TestWithTxCommit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(repo analytics.Repository) error {
		s := newSkill("Go")
		if err := repo.InsertSkill(ctx, s); err != nil {
			return err
		}
		return repo.InsertLog(ctx, &model.PracticeLog{SkillID: s.ID, PracticedAt: created, CreatedAt: created})
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	skills, _ := db.ListSkills(ctx)
	logs, _ := db.ListPracticeLogs(ctx)
	if len(skills) != 1 || len(logs) != 1 {
		t.Errorf("committed %d skills, %d logs, want 1/1", len(skills), len(logs))
	}
}

func TestWithTxRollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	existing := newSkill("Existing")
	db.InsertSkill(ctx, existing)

	boom := errors.New("boom")
	err := db.WithTx(ctx, func(repo analytics.Repository) error {
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := repo.InsertSkill(ctx, newSkill("New")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v, want boom", err)
	}

	skills, _ := db.ListSkills(ctx)
	if len(skills) != 1 || skills[0].ID != existing.ID {
		t.Errorf("after rollback = %+v, want only the existing skill", skills)
	}
}
