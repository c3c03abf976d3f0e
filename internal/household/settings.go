package household

// Settings holds the household-level preferences shared across devices:
// dietary restrictions, kitchen equipment, and the staples already stocked
// at home (used to hide grocery items at render time).
type Settings struct {
	HouseholdID        string   `json:"household_id"`
	DietaryPreferences []string `json:"dietary_preferences,omitempty"`
	Equipment          []string `json:"equipment,omitempty"`
	ItemsAtHome        []string `json:"items_at_home,omitempty"`
	UpdatedAt          string   `json:"updated_at,omitempty"`
}
