package household

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
		CREATE TABLE household_settings (
			household_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSaveAndGetSettings(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	settings := Settings{
		HouseholdID:        "h1",
		DietaryPreferences: []string{"vegetarian"},
		ItemsAtHome:        []string{"Salt", "Olive oil"},
	}
	if err := repo.Save(ctx, settings); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, "h1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.DietaryPreferences) != 1 || got.DietaryPreferences[0] != "vegetarian" {
		t.Errorf("Unexpected dietary preferences: %v", got.DietaryPreferences)
	}
	if len(got.ItemsAtHome) != 2 {
		t.Errorf("Expected 2 items at home, got %d", len(got.ItemsAtHome))
	}
}

func TestGetMissingReturnsEmpty(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	got, err := repo.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HouseholdID != "nobody" {
		t.Errorf("Expected household ID on empty settings, got '%s'", got.HouseholdID)
	}
	if len(got.ItemsAtHome) != 0 {
		t.Errorf("Expected empty items at home, got %v", got.ItemsAtHome)
	}
}

func TestAddItemAtHome(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	if err := repo.AddItemAtHome(ctx, "h1", "  Salt  "); err != nil {
		t.Fatalf("AddItemAtHome failed: %v", err)
	}
	if err := repo.AddItemAtHome(ctx, "h1", "salt"); err != nil {
		t.Fatalf("AddItemAtHome failed: %v", err)
	}
	if err := repo.AddItemAtHome(ctx, "h1", ""); err != nil {
		t.Fatalf("AddItemAtHome with blank input failed: %v", err)
	}

	items := repo.ItemsAtHome(ctx, "h1")
	if len(items) != 1 {
		t.Fatalf("Expected 1 item after dedupe, got %d: %v", len(items), items)
	}
	if items[0] != "Salt" {
		t.Errorf("Expected trimmed 'Salt', got '%s'", items[0])
	}
}

func TestRemoveItemAtHome(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	if err := repo.AddItemAtHome(ctx, "h1", "Salt"); err != nil {
		t.Fatalf("AddItemAtHome failed: %v", err)
	}
	if err := repo.AddItemAtHome(ctx, "h1", "Pepper"); err != nil {
		t.Fatalf("AddItemAtHome failed: %v", err)
	}

	if err := repo.RemoveItemAtHome(ctx, "h1", "SALT"); err != nil {
		t.Fatalf("RemoveItemAtHome failed: %v", err)
	}

	items := repo.ItemsAtHome(ctx, "h1")
	if len(items) != 1 || items[0] != "Pepper" {
		t.Errorf("Expected only 'Pepper' left, got %v", items)
	}
}
