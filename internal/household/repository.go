package household

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"veckomeny/internal/household/household_db"
)

// Repository is a database-backed repository for household settings.
type Repository struct {
	queries *household_db.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: household_db.New(d),
		db:      d,
	}
}

// Save upserts the settings for a household.
func (r *Repository) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal household settings: %w", err)
	}

	return r.queries.UpsertSettings(ctx, household_db.UpsertSettingsParams{
		HouseholdID: settings.HouseholdID,
		Data:        string(data),
		UpdatedAt:   time.Now().UTC(),
	})
}

// Get retrieves the settings for a household. A missing row yields empty
// settings, not an error.
func (r *Repository) Get(ctx context.Context, householdID string) (Settings, error) {
	row, err := r.queries.GetSettings(ctx, householdID)
	if err != nil {
		if err == sql.ErrNoRows {
			return Settings{HouseholdID: householdID}, nil
		}
		return Settings{}, fmt.Errorf("failed to get household settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal([]byte(row.Data), &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal household settings: %w", err)
	}
	return settings, nil
}

// ItemsAtHome returns the staples list for a household. Any failure degrades
// to an empty list so a missing or corrupt record never blocks list building.
func (r *Repository) ItemsAtHome(ctx context.Context, householdID string) []string {
	settings, err := r.Get(ctx, householdID)
	if err != nil {
		return nil
	}
	return settings.ItemsAtHome
}

// AddItemAtHome appends a staple to the household list. Duplicate entries
// (case-insensitive, trimmed) are ignored.
func (r *Repository) AddItemAtHome(ctx context.Context, householdID, item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil
	}

	settings, err := r.Get(ctx, householdID)
	if err != nil {
		return err
	}
	for _, existing := range settings.ItemsAtHome {
		if strings.EqualFold(strings.TrimSpace(existing), item) {
			return nil
		}
	}

	settings.HouseholdID = householdID
	settings.ItemsAtHome = append(settings.ItemsAtHome, item)
	return r.Save(ctx, settings)
}

// RemoveItemAtHome removes a staple from the household list.
func (r *Repository) RemoveItemAtHome(ctx context.Context, householdID, item string) error {
	settings, err := r.Get(ctx, householdID)
	if err != nil {
		return err
	}

	item = strings.TrimSpace(item)
	kept := settings.ItemsAtHome[:0]
	for _, existing := range settings.ItemsAtHome {
		if !strings.EqualFold(strings.TrimSpace(existing), item) {
			kept = append(kept, existing)
		}
	}
	settings.HouseholdID = householdID
	settings.ItemsAtHome = kept
	return r.Save(ctx, settings)
}
