package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"veckomeny/internal/recipe"
)

// Client talks to the recipe enhancement backend, which rewrites imported
// recipes into a cleaner, structured form.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new enhancement backend client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type enhanceResponse struct {
	Recipe recipe.Recipe `json:"recipe"`
	Model  string        `json:"model"`
}

// Enhance sends rec to the backend and returns the enhanced version. The
// result keeps the original recipe's ID and source URL.
func (c *Client) Enhance(ctx context.Context, rec recipe.Recipe) (*recipe.Enhanced, error) {
	jsonBody, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/enhance", bytes.NewBuffer(jsonBody))
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
		return nil, fmt.Errorf("enhancer api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var enhResp enhanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&enhResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if enhResp.Recipe.Title == "" {
		return nil, fmt.Errorf("enhancer returned no recipe")
	}

	enhanced := enhResp.Recipe
	enhanced.ID = rec.ID
	enhanced.SourceURL = rec.SourceURL
	if enhanced.Servings == 0 {
		enhanced.Servings = rec.Servings
	}

	return &recipe.Enhanced{
		Recipe:     enhanced,
		EnhancedAt: time.Now().UTC().Format(time.RFC3339),
		Model:      enhResp.Model,
	}, nil
}
