package grocery

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"veckomeny/internal/logger"
	"veckomeny/internal/mealplan"
	"veckomeny/internal/recipe"
)

// State keys in the device-local store.
const (
	keySelection = "selection"
	keyCustom    = "custom_items"
	keyChecked   = "checked_items"
	keyServings  = "servings_overrides"
)

// KV is the injected device-local storage for ephemeral UI state. Read
// failures degrade to empty state; they never block a derivation.
type KV interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

// Catalog resolves recipe IDs against the household catalog.
type Catalog interface {
	Resolve(ctx context.Context, ids []string) (map[string]recipe.Recipe, error)
}

// PlanSource provides the stored meal plan for a week.
type PlanSource interface {
	GetByWeek(ctx context.Context, householdID string, weekStart time.Time) (*mealplan.Plan, error)
}

// StaplesSource provides the household's items-at-home list.
type StaplesSource interface {
	ItemsAtHome(ctx context.Context, householdID string) []string
}

// Service owns the grocery list state and derivation. It gathers a snapshot
// from its collaborators, then runs the pure Builder pipeline over it.
type Service struct {
	builder     *Builder
	state       KV
	catalog     Catalog
	plans       PlanSource
	staples     StaplesSource
	householdID string
	now         func() time.Time
}

// NewService creates a grocery Service.
func NewService(builder *Builder, state KV, catalog Catalog, plans PlanSource, staples StaplesSource, householdID string) *Service {
	return &Service{
		builder:     builder,
		state:       state,
		catalog:     catalog,
		plans:       plans,
		staples:     staples,
		householdID: householdID,
		now:         time.Now,
	}
}

// BuildList derives the current shopping list. Missing or unreadable state
// degrades to "fewer items than expected", never to an error.
func (s *Service) BuildList(ctx context.Context) List {
	in := Inputs{
		Selected:    s.Selection(),
		Assignments: map[string]string{},
		Servings:    s.servingsOverrides(),
		Recipes:     map[string]recipe.Recipe{},
		Custom:      s.CustomItems(),
		Checked:     s.CheckedItems(),
	}

	plan, err := s.plans.GetByWeek(ctx, s.householdID, mealplan.WeekStartOf(s.now()))
	if err != nil {
		logger.Warn("failed to load meal plan, deriving without it", zap.Error(err))
	} else if plan != nil {
		for key, id := range plan.Slots {
			in.Assignments[string(key)] = id
		}
	}

	ids := make([]string, 0, len(in.Selected))
	seen := make(map[string]bool)
	for _, slot := range in.Selected {
		id := in.Assignments[slot]
		if id == "" || id == mealplan.CustomMarker || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		recipes, err := s.catalog.Resolve(ctx, ids)
		if err != nil {
			logger.Warn("failed to resolve recipes, deriving without them", zap.Error(err))
		} else {
			in.Recipes = recipes
		}
	}

	if s.staples != nil {
		in.AtHome = s.staples.ItemsAtHome(ctx, s.householdID)
	}

	return s.builder.Build(in)
}

// Selection returns the slot keys currently included in the list.
func (s *Service) Selection() []string {
	var selection []string
	if _, err := s.state.Get(keySelection, &selection); err != nil {
		logger.Warn("failed to read selection state, treating as empty", zap.Error(err))
		return nil
	}
	return selection
}

// Select adds a slot to the list selection. Re-selecting is a no-op.
func (s *Service) Select(slot string) error {
	selection := s.Selection()
	if containsString(selection, slot) {
		return nil
	}
	return s.state.Set(keySelection, append(selection, slot))
}

// Deselect removes a slot from the list selection.
func (s *Service) Deselect(slot string) error {
	selection := s.Selection()
	kept := selection[:0]
	for _, existing := range selection {
		if existing != slot {
			kept = append(kept, existing)
		}
	}
	return s.state.Set(keySelection, kept)
}

// CustomItems returns the manually added list entries.
func (s *Service) CustomItems() []Item {
	var custom []Item
	if _, err := s.state.Get(keyCustom, &custom); err != nil {
		logger.Warn("failed to read custom items state, treating as empty", zap.Error(err))
		return nil
	}
	return custom
}

// AddCustomItem appends a manually typed item. Blank or whitespace-only
// input is a no-op; surrounding whitespace is trimmed.
func (s *Service) AddCustomItem(text string) error {
	name := strings.TrimSpace(text)
	if name == "" {
		return nil
	}
	custom := append(s.CustomItems(), Item{
		Name:     name,
		Category: CategoryOther,
	})
	return s.state.Set(keyCustom, custom)
}

// CheckedItems returns the set of item names marked purchased.
func (s *Service) CheckedItems() map[string]bool {
	var names []string
	if _, err := s.state.Get(keyChecked, &names); err != nil {
		logger.Warn("failed to read checked state, treating as empty", zap.Error(err))
		return map[string]bool{}
	}
	checked := make(map[string]bool, len(names))
	for _, name := range names {
		checked[name] = true
	}
	return checked
}

// Toggle marks an item purchased or not by name.
func (s *Service) Toggle(name string, checked bool) error {
	set := s.CheckedItems()
	if checked {
		set[name] = true
	} else {
		delete(set, name)
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	return s.state.Set(keyChecked, names)
}

// SetServings stores a per-slot serving override. A non-positive count
// removes the override.
func (s *Service) SetServings(slot string, servings int) error {
	overrides := s.servingsOverrides()
	if servings <= 0 {
		delete(overrides, slot)
	} else {
		overrides[slot] = servings
	}
	return s.state.Set(keyServings, overrides)
}

func (s *Service) servingsOverrides() map[string]int {
	overrides := make(map[string]int)
	if _, err := s.state.Get(keyServings, &overrides); err != nil {
		logger.Warn("failed to read servings overrides, treating as empty", zap.Error(err))
		return map[string]int{}
	}
	if overrides == nil {
		overrides = map[string]int{}
	}
	return overrides
}

// ClearChecked empties the checked set.
func (s *Service) ClearChecked() error {
	return s.state.Delete(keyChecked)
}

// ClearAll empties the selection, the custom items, and the checked set.
// The meal plan itself is untouched.
func (s *Service) ClearAll() error {
	for _, key := range []string{keySelection, keyCustom, keyChecked} {
		if err := s.state.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
