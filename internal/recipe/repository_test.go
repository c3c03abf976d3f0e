package recipe

import (
	"context"
	"database/sql"
	"testing"

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
		CREATE TABLE recipes (id TEXT PRIMARY KEY, data TEXT NOT NULL, updated_at TIMESTAMP NOT NULL);
		CREATE TABLE enhanced_recipes (recipe_id TEXT PRIMARY KEY, data TEXT NOT NULL, updated_at TIMESTAMP NOT NULL);
	`)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	rec := Recipe{
		ID:          "r1",
		Title:       "Pasta",
		Ingredients: []string{"Pasta", "Tomato sauce"},
		Servings:    2,
		SourceURL:   "https://example.com/pasta",
		UpdatedAt:   "2026-08-01T12:00:00Z",
	}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected recipe, got nil")
	}
	if got.Title != "Pasta" {
		t.Errorf("Expected title 'Pasta', got '%s'", got.Title)
	}
	if len(got.Ingredients) != 2 {
		t.Errorf("Expected 2 ingredients, got %d", len(got.Ingredients))
	}
}

func TestGetMissing(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	got, err := repo.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing recipe, got %+v", got)
	}
}

func TestGetBySourceURL(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	if err := repo.Save(ctx, Recipe{ID: "r1", Title: "Pasta", SourceURL: "https://example.com/pasta"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetBySourceURL(ctx, "https://example.com/pasta")
	if err != nil {
		t.Fatalf("GetBySourceURL failed: %v", err)
	}
	if got == nil || got.ID != "r1" {
		t.Errorf("Expected recipe r1, got %+v", got)
	}

	missing, err := repo.GetBySourceURL(ctx, "https://example.com/other")
	if err != nil {
		t.Fatalf("GetBySourceURL failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown URL, got %+v", missing)
	}
}

func TestEnhancedPrecedence(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	if err := repo.Save(ctx, Recipe{ID: "r1", Title: "pasta recept", Servings: 2}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.SaveEnhanced(ctx, Enhanced{
		Recipe:     Recipe{ID: "r1", Title: "Pasta", Servings: 2},
		EnhancedAt: "2026-08-02T12:00:00Z",
		Model:      "test-model",
	}); err != nil {
		t.Fatalf("SaveEnhanced failed: %v", err)
	}

	got, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Pasta" {
		t.Errorf("Expected enhanced title 'Pasta', got '%s'", got.Title)
	}

	resolved, err := repo.Resolve(ctx, []string{"r1"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved["r1"].Title != "Pasta" {
		t.Errorf("Expected enhanced title in Resolve, got '%s'", resolved["r1"].Title)
	}
}

func TestResolveSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	if err := repo.Save(ctx, Recipe{ID: "r1", Title: "Pasta"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	resolved, err := repo.Resolve(ctx, []string{"r1", "ghost"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Errorf("Expected 1 resolved recipe, got %d", len(resolved))
	}
	if _, ok := resolved["ghost"]; ok {
		t.Error("Expected unknown ID to be absent from result")
	}
}

func TestListMergesEnhanced(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	if err := repo.Save(ctx, Recipe{ID: "r1", Title: "pasta recept"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(ctx, Recipe{ID: "r2", Title: "Tacos"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.SaveEnhanced(ctx, Enhanced{Recipe: Recipe{ID: "r1", Title: "Pasta"}, EnhancedAt: "2026-08-02T12:00:00Z"}); err != nil {
		t.Fatalf("SaveEnhanced failed: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 recipes, got %d", len(list))
	}

	titles := map[string]string{}
	for _, r := range list {
		titles[r.ID] = r.Title
	}
	if titles["r1"] != "Pasta" {
		t.Errorf("Expected enhanced title for r1, got '%s'", titles["r1"])
	}
	if titles["r2"] != "Tacos" {
		t.Errorf("Expected 'Tacos' for r2, got '%s'", titles["r2"])
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	if err := repo.Save(ctx, Recipe{ID: "r1", Title: "Pasta"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.SaveEnhanced(ctx, Enhanced{Recipe: Recipe{ID: "r1", Title: "Pasta"}, EnhancedAt: "2026-08-02T12:00:00Z"}); err != nil {
		t.Fatalf("SaveEnhanced failed: %v", err)
	}
	if err := repo.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil after delete, got %+v", got)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0, got %d", count)
	}
}
