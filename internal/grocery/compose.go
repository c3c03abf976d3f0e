package grocery

import (
	"veckomeny/internal/recipe"
)

// Inputs is the resolved in-memory snapshot one derivation consumes. All
// I/O (plan, catalog, persisted state) happens before the pipeline runs.
type Inputs struct {
	Selected    []string                 // slot keys, in selection order
	Assignments map[string]string        // slot key -> recipe id or custom marker
	Servings    map[string]int           // slot key -> serving override
	Recipes     map[string]recipe.Recipe // recipe id -> recipe
	Custom      []Item                   // manually added items
	Checked     map[string]bool          // item name -> purchased
	AtHome      []string                 // household staples
}

// Compose concatenates derived items with custom items (derived first) and
// attaches checked state by item name.
func Compose(derived, custom []Item, checked map[string]bool) []Item {
	items := make([]Item, 0, len(derived)+len(custom))
	for _, item := range derived {
		item.Checked = checked[item.Name]
		items = append(items, item)
	}
	for _, item := range custom {
		item.Checked = checked[item.Name]
		if item.Category == "" {
			item.Category = CategoryOther
		}
		items = append(items, item)
	}
	return items
}

// Count computes the rendering-layer counters for a composed list.
func Count(items []Item, staples []string) Counters {
	var c Counters
	c.Total = len(items)
	for _, item := range items {
		if IsAtHome(item.Name, staples) {
			c.HiddenAtHome++
			continue
		}
		if item.Checked {
			c.CheckedToBuy++
		}
	}
	c.ToBuy = c.Total - c.HiddenAtHome
	return c
}

// Build runs the full derivation over one input snapshot: aggregate the
// planned meals, merge in custom items with checked state, and compute the
// counters.
func (b *Builder) Build(in Inputs) List {
	derived := b.Aggregate(in.Selected, in.Assignments, in.Servings, in.Recipes)
	items := Compose(derived, in.Custom, in.Checked)
	return List{
		Items:    items,
		Counters: Count(items, in.AtHome),
	}
}
