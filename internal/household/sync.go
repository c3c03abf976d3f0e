package household

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SyncClient is an interface for the household settings cloud service.
type SyncClient interface {
	Fetch(ctx context.Context, householdID string) (*Settings, error)
	Push(ctx context.Context, settings Settings) error
}

// syncClient is the concrete HTTP implementation of SyncClient.
type syncClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string // "id:secret" format
}

// NewSyncClient creates a new cloud settings client.
func NewSyncClient(baseURL, apiKey string) SyncClient {
	return &syncClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Fetch retrieves the household settings from the cloud service. Returns
// (nil, nil) when the service has no record for the household.
func (c *syncClient) Fetch(ctx context.Context, householdID string) (*Settings, error) {
	token, err := c.createToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create sync token: %w", err)
	}

	url := fmt.Sprintf("%s/v1/households/%s/settings", c.baseURL, householdID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sync api error: status %d", resp.StatusCode)
	}

	var settings Settings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings response: %w", err)
	}
	return &settings, nil
}

// Push uploads the household settings to the cloud service.
func (c *syncClient) Push(ctx context.Context, settings Settings) error {
	token, err := c.createToken()
	if err != nil {
		return fmt.Errorf("failed to create sync token: %w", err)
	}

	body, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	url := fmt.Sprintf("%s/v1/households/%s/settings", c.baseURL, settings.HouseholdID)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("sync api error: status %d", resp.StatusCode)
	}
	return nil
}

// createToken generates a short-lived JWT for the sync API.
func (c *syncClient) createToken() (string, error) {
	keyParts := strings.Split(c.apiKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid sync key format: expected id:secret")
	}

	id := keyParts[0]
	secretHex := keyParts[1]

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/v1/settings/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
