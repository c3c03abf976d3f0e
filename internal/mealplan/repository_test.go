package mealplan

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE meal_plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			household_id TEXT NOT NULL,
			week_start TIMESTAMP NOT NULL,
			plan_data TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (household_id, week_start)
		);
	`)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSaveAndGetByWeek(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	weekStart := WeekStartOf(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	plan := NewPlan(weekStart)
	plan.Assign(NewSlotKey("monday", Dinner), "r1")
	plan.Assign(NewSlotKey("tuesday", Dinner), CustomMarker)

	if err := repo.Save(ctx, "h1", plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetByWeek(ctx, "h1", weekStart)
	if err != nil {
		t.Fatalf("GetByWeek failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected plan, got nil")
	}
	if len(got.Slots) != 2 {
		t.Errorf("Expected 2 slots, got %d", len(got.Slots))
	}
	if got.Slots[NewSlotKey("monday", Dinner)] != "r1" {
		t.Errorf("Expected r1 in monday:dinner, got '%s'", got.Slots[NewSlotKey("monday", Dinner)])
	}
}

func TestGetByWeekMissing(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	got, err := repo.GetByWeek(context.Background(), "h1", WeekStartOf(time.Now()))
	if err != nil {
		t.Fatalf("GetByWeek failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing week, got %+v", got)
	}
}

func TestSaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	weekStart := WeekStartOf(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	plan := NewPlan(weekStart)
	plan.Assign(NewSlotKey("monday", Dinner), "r1")
	if err := repo.Save(ctx, "h1", plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	plan.Assign(NewSlotKey("monday", Dinner), "r2")
	if err := repo.Save(ctx, "h1", plan); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	got, err := repo.GetByWeek(ctx, "h1", weekStart)
	if err != nil {
		t.Fatalf("GetByWeek failed: %v", err)
	}
	if got.Slots[NewSlotKey("monday", Dinner)] != "r2" {
		t.Errorf("Expected upsert to win with r2, got '%s'", got.Slots[NewSlotKey("monday", Dinner)])
	}
}

func TestHouseholdsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	weekStart := WeekStartOf(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	plan := NewPlan(weekStart)
	plan.Assign(NewSlotKey("friday", Dinner), "r1")
	if err := repo.Save(ctx, "h1", plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetByWeek(ctx, "h2", weekStart)
	if err != nil {
		t.Fatalf("GetByWeek failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no plan for other household, got %+v", got)
	}
}

func TestDeleteByWeek(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	weekStart := WeekStartOf(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, "h1", NewPlan(weekStart)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.DeleteByWeek(ctx, "h1", weekStart); err != nil {
		t.Fatalf("DeleteByWeek failed: %v", err)
	}

	got, err := repo.GetByWeek(ctx, "h1", weekStart)
	if err != nil {
		t.Fatalf("GetByWeek failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil after delete, got %+v", got)
	}
}
