package grocery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"veckomeny/internal/mealplan"
	"veckomeny/internal/recipe"
)

// memKV is an in-memory KV implementation for tests.
type memKV struct {
	data    map[string][]byte
	corrupt map[string]bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, corrupt: map[string]bool{}}
}

func (m *memKV) Get(key string, v any) (bool, error) {
	if m.corrupt[key] {
		return false, errors.New("corrupt state")
	}
	data, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (m *memKV) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

type mockCatalog struct {
	recipes map[string]recipe.Recipe
}

func (m *mockCatalog) Resolve(ctx context.Context, ids []string) (map[string]recipe.Recipe, error) {
	resolved := make(map[string]recipe.Recipe)
	for _, id := range ids {
		if rec, ok := m.recipes[id]; ok {
			resolved[id] = rec
		}
	}
	return resolved, nil
}

type mockPlans struct {
	plan *mealplan.Plan
}

func (m *mockPlans) GetByWeek(ctx context.Context, householdID string, weekStart time.Time) (*mealplan.Plan, error) {
	return m.plan, nil
}

type mockStaples struct {
	items []string
}

func (m *mockStaples) ItemsAtHome(ctx context.Context, householdID string) []string {
	return m.items
}

func newTestService(t *testing.T, kv KV, plan *mealplan.Plan, recipes map[string]recipe.Recipe, staples []string) *Service {
	t.Helper()
	return NewService(
		newTestBuilder(t),
		kv,
		&mockCatalog{recipes: recipes},
		&mockPlans{plan: plan},
		&mockStaples{items: staples},
		"default",
	)
}

func testPlan() *mealplan.Plan {
	plan := mealplan.NewPlan(mealplan.WeekStartOf(time.Now()))
	plan.Assign("monday:dinner", "r1")
	return plan
}

func testRecipes() map[string]recipe.Recipe {
	return map[string]recipe.Recipe{
		"r1": {ID: "r1", Title: "Pasta", Servings: 2, Ingredients: []string{"Pasta", "Tomato sauce (steg 2)"}},
	}
}

func TestServiceBuildList(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newTestService(t, kv, testPlan(), testRecipes(), nil)

	if err := svc.Select("monday:dinner"); err != nil {
		t.Fatalf("Failed to select slot: %v", err)
	}

	list := svc.BuildList(ctx)
	if len(list.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(list.Items))
	}
	if list.Items[1].Name != "Tomato sauce" {
		t.Errorf("Expected normalized 'Tomato sauce', got '%s'", list.Items[1].Name)
	}
	if list.Counters.Total != 2 || list.Counters.ToBuy != 2 {
		t.Errorf("Expected counters total=2 toBuy=2, got %+v", list.Counters)
	}
}

func TestServiceToggle(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newTestService(t, kv, testPlan(), testRecipes(), nil)
	_ = svc.Select("monday:dinner")

	if err := svc.Toggle("Pasta", true); err != nil {
		t.Fatalf("Failed to toggle: %v", err)
	}

	list := svc.BuildList(ctx)
	if !list.Items[0].Checked {
		t.Error("Expected 'Pasta' to be checked after toggle")
	}
	if list.Counters.CheckedToBuy != 1 {
		t.Errorf("Expected 1 checked to buy, got %d", list.Counters.CheckedToBuy)
	}

	if err := svc.Toggle("Pasta", false); err != nil {
		t.Fatalf("Failed to untoggle: %v", err)
	}
	list = svc.BuildList(ctx)
	if list.Items[0].Checked {
		t.Error("Expected 'Pasta' to be unchecked after untoggle")
	}
}

func TestServiceAddCustomItem(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newTestService(t, kv, nil, nil, nil)

	t.Run("TrimsWhitespace", func(t *testing.T) {
		if err := svc.AddCustomItem("  Milk  "); err != nil {
			t.Fatalf("Failed to add custom item: %v", err)
		}
		list := svc.BuildList(ctx)
		if len(list.Items) != 1 {
			t.Fatalf("Expected 1 item, got %d", len(list.Items))
		}
		if list.Items[0].Name != "Milk" {
			t.Errorf("Expected trimmed name 'Milk', got '%s'", list.Items[0].Name)
		}
	})

	t.Run("BlankIsNoOp", func(t *testing.T) {
		if err := svc.AddCustomItem("   "); err != nil {
			t.Fatalf("Expected no error for blank input, got %v", err)
		}
		list := svc.BuildList(ctx)
		if len(list.Items) != 1 {
			t.Errorf("Expected blank add to be a no-op, got %d items", len(list.Items))
		}
	})
}

func TestServiceClearAll(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newTestService(t, kv, testPlan(), testRecipes(), nil)

	_ = svc.Select("monday:dinner")
	_ = svc.AddCustomItem("Milk")
	_ = svc.Toggle("Pasta", true)

	if err := svc.ClearAll(); err != nil {
		t.Fatalf("Failed to clear all: %v", err)
	}

	list := svc.BuildList(ctx)
	if len(list.Items) != 0 {
		t.Errorf("Expected empty list after clear-all, got %d items", len(list.Items))
	}
	if len(svc.Selection()) != 0 {
		t.Errorf("Expected empty selection after clear-all, got %v", svc.Selection())
	}
	if len(svc.CheckedItems()) != 0 {
		t.Errorf("Expected empty checked set after clear-all, got %v", svc.CheckedItems())
	}
}

func TestServiceClearChecked(t *testing.T) {
	kv := newMemKV()
	svc := newTestService(t, kv, testPlan(), testRecipes(), nil)
	_ = svc.Toggle("Pasta", true)

	if err := svc.ClearChecked(); err != nil {
		t.Fatalf("Failed to clear checked: %v", err)
	}
	if len(svc.CheckedItems()) != 0 {
		t.Errorf("Expected empty checked set, got %v", svc.CheckedItems())
	}
}

func TestServiceServingsOverride(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	plan := testPlan()
	plan.Assign("thursday:dinner", "r1")
	svc := newTestService(t, kv, plan, testRecipes(), nil)

	_ = svc.Select("monday:dinner")
	_ = svc.Select("thursday:dinner")
	if err := svc.SetServings("thursday:dinner", 4); err != nil {
		t.Fatalf("Failed to set servings: %v", err)
	}

	list := svc.BuildList(ctx)
	if len(list.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(list.Items))
	}
	sources := list.Items[0].RecipeSources
	if len(sources) != 2 || sources[1] != "Pasta (4 servings)" {
		t.Errorf("Expected scaled source label 'Pasta (4 servings)', got %v", sources)
	}
}

func TestServiceAtHomeCounters(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newTestService(t, kv, nil, nil, []string{"salt"})

	_ = svc.AddCustomItem("Salt")
	_ = svc.AddCustomItem("Pepper")

	list := svc.BuildList(ctx)
	if list.Counters.HiddenAtHome != 1 {
		t.Errorf("Expected 1 hidden at home, got %d", list.Counters.HiddenAtHome)
	}
	if list.Counters.ToBuy != 1 {
		t.Errorf("Expected 1 item to buy, got %d", list.Counters.ToBuy)
	}
}

func TestServiceCorruptStateDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.corrupt["checked_items"] = true
	kv.corrupt["custom_items"] = true
	kv.corrupt["selection"] = true

	svc := newTestService(t, kv, testPlan(), testRecipes(), nil)

	list := svc.BuildList(ctx)
	if len(list.Items) != 0 {
		t.Errorf("Expected corrupt state to degrade to an empty list, got %d items", len(list.Items))
	}
}

func TestServiceDeselect(t *testing.T) {
	kv := newMemKV()
	svc := newTestService(t, kv, testPlan(), testRecipes(), nil)

	_ = svc.Select("monday:dinner")
	_ = svc.Select("monday:dinner") // duplicate select is a no-op
	if len(svc.Selection()) != 1 {
		t.Fatalf("Expected 1 selected slot, got %d", len(svc.Selection()))
	}

	if err := svc.Deselect("monday:dinner"); err != nil {
		t.Fatalf("Failed to deselect: %v", err)
	}
	if len(svc.Selection()) != 0 {
		t.Errorf("Expected empty selection, got %v", svc.Selection())
	}
}
