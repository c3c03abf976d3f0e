package config

import (
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Defaults", func(t *testing.T) {
		// Clear optional vars so the defaults apply
		for _, key := range []string{"DATABASE_PATH", "STATE_PATH", "HOUSEHOLD_ID", "LOCALE", "DEFAULT_SERVINGS", "SYNC_API_URL", "SYNC_API_KEY"} {
			setEnv(key, "")
		}

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/veckomeny.db" {
			t.Errorf("Expected default DatabasePath 'data/veckomeny.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.StatePath != "data/state" {
			t.Errorf("Expected default StatePath 'data/state', got '%s'", cfg.StatePath)
		}
		if cfg.HouseholdID != "default" {
			t.Errorf("Expected default HouseholdID 'default', got '%s'", cfg.HouseholdID)
		}
		if cfg.Locale != "sv" {
			t.Errorf("Expected default Locale 'sv', got '%s'", cfg.Locale)
		}
		if cfg.DefaultServings != 2 {
			t.Errorf("Expected DefaultServings 2, got %d", cfg.DefaultServings)
		}
	})

	t.Run("ExplicitValues", func(t *testing.T) {
		setEnv("DATABASE_PATH", "/tmp/test.db")
		setEnv("LOCALE", "en")
		setEnv("DEFAULT_SERVINGS", "4")
		setEnv("SYNC_API_URL", "http://sync.test")
		setEnv("SYNC_API_KEY", "abc:def")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected DatabasePath '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.Locale != "en" {
			t.Errorf("Expected Locale 'en', got '%s'", cfg.Locale)
		}
		if cfg.DefaultServings != 4 {
			t.Errorf("Expected DefaultServings 4, got %d", cfg.DefaultServings)
		}
		if cfg.SyncAPIKey != "abc:def" {
			t.Errorf("Expected SyncAPIKey 'abc:def', got '%s'", cfg.SyncAPIKey)
		}
	})

	t.Run("MissingSyncAPIKey", func(t *testing.T) {
		setEnv("SYNC_API_URL", "http://sync.test")
		setEnv("SYNC_API_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing SYNC_API_KEY, got nil")
		}
		expectedError := "SYNC_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidDefaultServings", func(t *testing.T) {
		setEnv("SYNC_API_URL", "")
		setEnv("DEFAULT_SERVINGS", "zero")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid DEFAULT_SERVINGS, got nil")
		}
	})

	t.Run("AllowedUserIDs", func(t *testing.T) {
		setEnv("DEFAULT_SERVINGS", "")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "123, 456,789")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(cfg.TelegramAllowedUserIDs) != 3 {
			t.Fatalf("Expected 3 allowed user ids, got %d", len(cfg.TelegramAllowedUserIDs))
		}
		if cfg.TelegramAllowedUserIDs[1] != 456 {
			t.Errorf("Expected second allowed id 456, got %d", cfg.TelegramAllowedUserIDs[1])
		}
	})

	t.Run("RequireTelegram", func(t *testing.T) {
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "")
		setEnv("TELEGRAM_BOT_TOKEN", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := cfg.RequireTelegram(); err == nil {
			t.Fatal("Expected an error for missing TELEGRAM_BOT_TOKEN, got nil")
		}
	})
}
