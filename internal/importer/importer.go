package importer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"veckomeny/internal/recipe"
)

// Importer turns a URL into a catalog recipe. When a scraper backend is
// configured it does the extraction; otherwise the page is fetched and the
// embedded schema.org Recipe data is parsed locally.
type Importer struct {
	scraper   *ScraperClient // nil when no backend configured
	extractor *Extractor
}

// New creates an Importer. scraper may be nil.
func New(scraper *ScraperClient, extractor *Extractor) *Importer {
	return &Importer{
		scraper:   scraper,
		extractor: extractor,
	}
}

// Import fetches and extracts the recipe at url. The returned recipe has a
// fresh ID and its SourceURL and UpdatedAt set.
func (imp *Importer) Import(ctx context.Context, url string) (*recipe.Recipe, error) {
	var (
		rec *recipe.Recipe
		err error
	)
	if imp.scraper != nil {
		rec, err = imp.scraper.Scrape(ctx, url)
	} else {
		rec, err = imp.extractor.Extract(ctx, url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to import recipe from %s: %w", url, err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.SourceURL = url
	if rec.UpdatedAt == "" {
		rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return rec, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
