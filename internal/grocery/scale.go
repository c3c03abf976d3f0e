package grocery

import "fmt"

// DefaultServings is used when a slot has no override or a recipe does not
// declare a serving count.
const DefaultServings = 2

// Multiplier computes the quantity scale factor for a planned meal from the
// requested serving count and the recipe's default. Zero or negative operands
// fall back to DefaultServings.
func Multiplier(requested, recipeServings int) float64 {
	if requested <= 0 {
		requested = DefaultServings
	}
	if recipeServings <= 0 {
		recipeServings = DefaultServings
	}
	return float64(requested) / float64(recipeServings)
}

// Labeler formats the human-readable source label that identifies which
// recipe, at which serving size, contributed an ingredient. The servings
// word is locale-dependent ("servings", "portioner").
type Labeler struct {
	servingsWord string
}

// NewLabeler creates a Labeler with the given localized servings word.
func NewLabeler(servingsWord string) *Labeler {
	if servingsWord == "" {
		servingsWord = "servings"
	}
	return &Labeler{servingsWord: servingsWord}
}

// Label returns the bare recipe title when the meal is cooked at the
// recipe's own serving size, and "Title (N <servings>)" otherwise. Only the
// label is affected; ingredient quantities are never rescaled here.
func (l *Labeler) Label(title string, requested, recipeServings int) string {
	if Multiplier(requested, recipeServings) == 1 {
		return title
	}
	if requested <= 0 {
		requested = DefaultServings
	}
	return fmt.Sprintf("%s (%d %s)", title, requested, l.servingsWord)
}
