package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"veckomeny/internal/recipe"
)

// ScraperClient is a client for the recipe scraping backend, which extracts
// structured recipe data from arbitrary pages server-side.
type ScraperClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewScraperClient creates a new scraping backend client.
func NewScraperClient(baseURL, apiKey string) *ScraperClient {
	return &ScraperClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(),
	}
}

// Scrape asks the backend to extract the recipe at url.
func (c *ScraperClient) Scrape(ctx context.Context, url string) (*recipe.Recipe, error) {
	reqBody, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/scrape", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scraper api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var rec recipe.Recipe
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode scraper response: %w", err)
	}

	if rec.Title == "" {
		return nil, fmt.Errorf("scraper returned no recipe for %s", url)
	}
	return &rec, nil
}
