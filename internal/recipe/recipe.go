package recipe

// Recipe represents a recipe in the household catalog.
type Recipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions,omitempty"`
	Servings     int      `json:"servings"`
	Tags         []string `json:"tags,omitempty"`
	PrepTime     string   `json:"prep_time,omitempty"`
	SourceURL    string   `json:"source_url,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

// Enhanced is an AI-enhanced variant of a catalog recipe. It shares the
// recipe ID with its regular counterpart and takes precedence over it when
// the catalog is read.
type Enhanced struct {
	Recipe
	EnhancedAt string `json:"enhanced_at"`
	Model      string `json:"model,omitempty"`
}

// MergeCatalog combines the regular catalog with enhanced variants. An
// enhanced recipe replaces the regular one with the same ID in place;
// enhanced recipes without a regular counterpart are appended in their own
// order. Regular recipe order is preserved.
func MergeCatalog(regular []Recipe, enhanced []Enhanced) []Recipe {
	byID := make(map[string]Recipe, len(enhanced))
	for _, e := range enhanced {
		byID[e.ID] = e.Recipe
	}

	merged := make([]Recipe, 0, len(regular)+len(enhanced))
	seen := make(map[string]bool, len(regular))
	for _, r := range regular {
		if e, ok := byID[r.ID]; ok {
			merged = append(merged, e)
		} else {
			merged = append(merged, r)
		}
		seen[r.ID] = true
	}

	for _, e := range enhanced {
		if !seen[e.ID] {
			merged = append(merged, e.Recipe)
		}
	}
	return merged
}
