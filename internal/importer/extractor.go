package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"veckomeny/internal/recipe"
)

// Extractor fetches a page and parses the schema.org Recipe JSON-LD most
// recipe sites embed. It is the fallback when no scraper backend is
// configured.
type Extractor struct {
	httpClient *http.Client
}

// NewExtractor creates a new local extractor.
func NewExtractor() *Extractor {
	return &Extractor{httpClient: newHTTPClient()}
}

// jsonLDRecipe mirrors the subset of schema.org/Recipe we read. Fields vary
// wildly across sites, hence the raw types.
type jsonLDRecipe struct {
	Type         json.RawMessage `json:"@type"`
	Graph        []jsonLDRecipe  `json:"@graph"`
	Name         string          `json:"name"`
	Ingredients  []string        `json:"recipeIngredient"`
	Instructions json.RawMessage `json:"recipeInstructions"`
	Yield        json.RawMessage `json:"recipeYield"`
	Keywords     string          `json:"keywords"`
	TotalTime    string          `json:"totalTime"`
}

// Extract fetches url and parses its embedded recipe data.
func (e *Extractor) Extract(ctx context.Context, url string) (*recipe.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var found *jsonLDRecipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if ld := parseJSONLD(s.Text()); ld != nil {
			found = ld
			return false
		}
		return true
	})

	if found == nil {
		return nil, fmt.Errorf("no schema.org recipe data found at %s", url)
	}

	rec := &recipe.Recipe{
		Title:        found.Name,
		Ingredients:  found.Ingredients,
		Instructions: parseInstructions(found.Instructions),
		Servings:     parseYield(found.Yield),
		PrepTime:     found.TotalTime,
	}
	if found.Keywords != "" {
		for _, kw := range strings.Split(found.Keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				rec.Tags = append(rec.Tags, kw)
			}
		}
	}
	if rec.Title == "" || len(rec.Ingredients) == 0 {
		return nil, fmt.Errorf("incomplete recipe data at %s", url)
	}
	return rec, nil
}

// parseJSONLD digs a Recipe node out of a ld+json block, which may be a
// single object, a top-level array, or an @graph wrapper.
func parseJSONLD(raw string) *jsonLDRecipe {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var single jsonLDRecipe
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if found := findRecipeNode(single); found != nil {
			return found
		}
	}

	var list []jsonLDRecipe
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		for _, node := range list {
			if found := findRecipeNode(node); found != nil {
				return found
			}
		}
	}
	return nil
}

func findRecipeNode(node jsonLDRecipe) *jsonLDRecipe {
	if isRecipeType(node.Type) {
		return &node
	}
	for _, child := range node.Graph {
		if isRecipeType(child.Type) {
			return &child
		}
	}
	return nil
}

// isRecipeType handles "@type": "Recipe" as well as the array form.
func isRecipeType(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s == "Recipe"
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, t := range list {
			if t == "Recipe" {
				return true
			}
		}
	}
	return false
}

// parseInstructions flattens recipeInstructions, which is either a plain
// string, a list of strings, or a list of HowToStep objects.
func parseInstructions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}

	var steps []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &steps); err == nil {
		var out []string
		for _, step := range steps {
			if step.Text != "" {
				out = append(out, step.Text)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}

var yieldNumber = regexp.MustCompile(`\d+`)

// parseYield extracts a serving count from recipeYield, which may be a
// number, a string like "4 portioner", or a list of either.
func parseYield(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return firstNumber(s)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return parseYield(list[0])
	}
	return 0
}

func firstNumber(s string) int {
	match := yieldNumber.FindString(s)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
