package grocery

import (
	"veckomeny/internal/mealplan"
	"veckomeny/internal/recipe"
)

// Builder derives a shopping list from a meal-plan snapshot. It is a pure
// pipeline: all inputs are resolved in-memory values and every derivation is
// recomputed from scratch.
type Builder struct {
	rules   *RuleSet
	labeler *Labeler
}

// NewBuilder creates a Builder with the given locale rule set and labeler.
func NewBuilder(rules *RuleSet, labeler *Labeler) *Builder {
	return &Builder{rules: rules, labeler: labeler}
}

// Aggregate folds the selected slots into a deduplicated ingredient list.
// Output order is the insertion order of first occurrence. Slots assigned
// the custom marker, slots with no assignment, and recipe IDs missing from
// the lookup are silently skipped; a recipe may have been deleted after
// being planned.
func (b *Builder) Aggregate(selected []string, assignments map[string]string, servings map[string]int, recipes map[string]recipe.Recipe) []Item {
	index := make(map[string]int)
	var items []Item

	for _, slot := range selected {
		id := assignments[slot]
		if id == "" || id == mealplan.CustomMarker {
			continue
		}
		rec, ok := recipes[id]
		if !ok {
			continue
		}

		label := b.labeler.Label(rec.Title, servings[slot], rec.Servings)

		for _, raw := range rec.Ingredients {
			display := b.rules.Clean(raw)
			if display == "" {
				continue
			}
			key := b.rules.Key(raw)

			if i, seen := index[key]; seen {
				if !containsString(items[i].RecipeSources, label) {
					items[i].RecipeSources = append(items[i].RecipeSources, label)
				}
				continue
			}

			index[key] = len(items)
			items = append(items, Item{
				Name:          display,
				Category:      CategoryOther,
				RecipeSources: []string{label},
			})
		}
	}
	return items
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
