package mealplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"veckomeny/internal/mealplan/plan_db"
)

// Repository is a database-backed repository for weekly meal plans.
type Repository struct {
	queries *plan_db.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: plan_db.New(d),
		db:      d,
	}
}

// Save upserts the plan for its week.
func (r *Repository) Save(ctx context.Context, householdID string, plan *Plan) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan to JSON: %w", err)
	}

	now := time.Now().UTC()
	return r.queries.UpsertMealPlan(ctx, plan_db.UpsertMealPlanParams{
		HouseholdID: householdID,
		WeekStart:   plan.WeekStart,
		PlanData:    string(planJSON),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// GetByWeek retrieves the plan for a given week. Returns (nil, nil) when no
// plan has been saved for that week.
func (r *Repository) GetByWeek(ctx context.Context, householdID string, weekStart time.Time) (*Plan, error) {
	dbPlan, err := r.queries.GetMealPlanByWeek(ctx, plan_db.GetMealPlanByWeekParams{
		HouseholdID: householdID,
		WeekStart:   weekStart,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan by week: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal([]byte(dbPlan.PlanData), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan JSON: %w", err)
	}
	return &plan, nil
}

// ListRecent retrieves the N most recent plans for a household.
func (r *Repository) ListRecent(ctx context.Context, householdID string, limit int) ([]Plan, error) {
	dbPlans, err := r.queries.ListRecentMealPlans(ctx, plan_db.ListRecentMealPlansParams{
		HouseholdID: householdID,
		Limit:       int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for household %s: %w", householdID, err)
	}

	var plans []Plan
	for _, dbPlan := range dbPlans {
		var plan Plan
		if err := json.Unmarshal([]byte(dbPlan.PlanData), &plan); err != nil {
			continue
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// DeleteByWeek removes the plan for a given week.
func (r *Repository) DeleteByWeek(ctx context.Context, householdID string, weekStart time.Time) error {
	return r.queries.DeleteMealPlanByWeek(ctx, plan_db.DeleteMealPlanByWeekParams{
		HouseholdID: householdID,
		WeekStart:   weekStart,
	})
}
