package mealplan

import (
	"fmt"
	"strings"
	"time"
)

// CustomMarker is the slot assignment used for meals that are not backed by
// a catalog recipe (eating out, leftovers, a one-off dish). Slots carrying it
// never contribute grocery items.
const CustomMarker = "custom"

// MealType identifies the meal within a day.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

var days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var mealTypes = []MealType{Breakfast, Lunch, Dinner}

// SlotKey is the canonical "(day):(meal-type)" key for a meal plan slot,
// e.g. "monday:dinner".
type SlotKey string

// NewSlotKey builds the canonical key for a day and meal type.
func NewSlotKey(day string, meal MealType) SlotKey {
	return SlotKey(strings.ToLower(day) + ":" + string(meal))
}

// ParseSlotKey validates and canonicalizes a raw slot key.
func ParseSlotKey(raw string) (SlotKey, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(raw)), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid slot key %q: expected day:meal-type", raw)
	}

	dayOK := false
	for _, d := range days {
		if parts[0] == d {
			dayOK = true
			break
		}
	}
	if !dayOK {
		return "", fmt.Errorf("invalid slot key %q: unknown day %q", raw, parts[0])
	}

	mealOK := false
	for _, m := range mealTypes {
		if parts[1] == string(m) {
			mealOK = true
			break
		}
	}
	if !mealOK {
		return "", fmt.Errorf("invalid slot key %q: unknown meal type %q", raw, parts[1])
	}

	return SlotKey(parts[0] + ":" + parts[1]), nil
}

// Day returns the day part of the key.
func (k SlotKey) Day() string {
	day, _, _ := strings.Cut(string(k), ":")
	return day
}

// Meal returns the meal-type part of the key.
func (k SlotKey) Meal() MealType {
	_, meal, _ := strings.Cut(string(k), ":")
	return MealType(meal)
}

// Plan represents one week's meal plan: slot keys mapped to a recipe ID or
// the custom marker.
type Plan struct {
	WeekStart time.Time          `json:"week_start"`
	Slots     map[SlotKey]string `json:"slots"`
}

// NewPlan creates an empty plan for the given week.
func NewPlan(weekStart time.Time) *Plan {
	return &Plan{
		WeekStart: weekStart,
		Slots:     make(map[SlotKey]string),
	}
}

// Assign sets the recipe (or custom marker) for a slot.
func (p *Plan) Assign(key SlotKey, recipeID string) {
	if p.Slots == nil {
		p.Slots = make(map[SlotKey]string)
	}
	p.Slots[key] = recipeID
}

// Unassign clears a slot.
func (p *Plan) Unassign(key SlotKey) {
	delete(p.Slots, key)
}

// OrderedSlots returns the assigned slot keys in week order (Monday breakfast
// through Sunday dinner). Map iteration order is not stable, so every consumer
// that needs determinism goes through this.
func (p *Plan) OrderedSlots() []SlotKey {
	var ordered []SlotKey
	for _, day := range days {
		for _, meal := range mealTypes {
			key := NewSlotKey(day, meal)
			if _, ok := p.Slots[key]; ok {
				ordered = append(ordered, key)
			}
		}
	}
	return ordered
}

// WeekStartOf returns the Monday of the week containing t, truncated to
// midnight UTC.
func WeekStartOf(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}
