package grocery

// CategoryOther is the default category for list items. Category-aware
// sorting is not implemented yet, so every item lands here.
const CategoryOther = "other"

// Item is a single entry on the shopping list.
type Item struct {
	Name            string   `json:"name"`
	Quantity        string   `json:"quantity,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	Category        string   `json:"category"`
	Checked         bool     `json:"checked"`
	RecipeSources   []string `json:"recipe_sources,omitempty"`
	QuantitySources []string `json:"quantity_sources,omitempty"`
}

// Counters summarize the composed list for the rendering layer.
// ToBuy + HiddenAtHome always equals Total.
type Counters struct {
	Total        int `json:"total"`
	ToBuy        int `json:"to_buy"`
	CheckedToBuy int `json:"checked_to_buy"`
	HiddenAtHome int `json:"hidden_at_home"`
}

// List is the composed shopping list handed to the rendering layer.
type List struct {
	Items    []Item   `json:"items"`
	Counters Counters `json:"counters"`
}
