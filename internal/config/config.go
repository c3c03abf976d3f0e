package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	StatePath    string
	HouseholdID  string

	Locale          string
	DefaultServings int

	// Household settings sync service (optional)
	SyncAPIURL string
	SyncAPIKey string // "id:secret" format

	// Recipe scraping backend (optional, local extraction used when unset)
	ScraperAPIURL string
	ScraperAPIKey string

	// AI recipe enhancement backend (optional)
	EnhancerAPIURL string
	EnhancerAPIKey string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/veckomeny.db"
	}

	statePath := os.Getenv("STATE_PATH")
	if statePath == "" {
		statePath = "data/state"
	}

	householdID := os.Getenv("HOUSEHOLD_ID")
	if householdID == "" {
		householdID = "default"
	}

	locale := os.Getenv("LOCALE")
	if locale == "" {
		locale = "sv"
	}

	defaultServings := 2
	if v := os.Getenv("DEFAULT_SERVINGS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("DEFAULT_SERVINGS must be a positive integer, got %q", v)
		}
		defaultServings = n
	}

	syncURL := os.Getenv("SYNC_API_URL")
	syncKey := os.Getenv("SYNC_API_KEY")
	if syncURL != "" && syncKey == "" {
		return nil, fmt.Errorf("SYNC_API_KEY environment variable not set")
	}

	// Telegram Config (Optional for CLI, required for Bot)
	var allowedIDs []int64
	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS contains invalid id %q", part)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	var adminID int64
	if v := os.Getenv("TELEGRAM_ADMIN_ID"); v != "" {
		fmt.Sscanf(v, "%d", &adminID)
	}

	return &Config{
		DatabasePath:           databasePath,
		StatePath:              statePath,
		HouseholdID:            householdID,
		Locale:                 locale,
		DefaultServings:        defaultServings,
		SyncAPIURL:             syncURL,
		SyncAPIKey:             syncKey,
		ScraperAPIURL:          os.Getenv("SCRAPER_API_URL"),
		ScraperAPIKey:          os.Getenv("SCRAPER_API_KEY"),
		EnhancerAPIURL:         os.Getenv("ENHANCER_API_URL"),
		EnhancerAPIKey:         os.Getenv("ENHANCER_API_KEY"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}

// RequireTelegram validates the variables the bot binary cannot run without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}
