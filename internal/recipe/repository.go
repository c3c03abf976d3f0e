package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	db "veckomeny/internal/recipe/db"

	"go.uber.org/zap"

	"veckomeny/internal/logger"
)

// Repository is a database-backed repository for the recipe catalog.
// Reads merge enhanced variants over regular recipes (enhanced wins on
// identical id).
type Repository struct {
	queries *db.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: db.New(d),
		db:      d,
	}
}

func parseUpdatedAt(raw, id string) time.Time {
	if raw == "" {
		return time.Now()
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		logger.Warn("failed to parse recipe updated_at, using current time",
			zap.String("recipe_id", id), zap.String("updated_at", raw), zap.Error(err))
		return time.Now()
	}
	return parsed
}

// Save inserts or updates a recipe in the catalog.
func (r *Repository) Save(ctx context.Context, rec Recipe) error {
	recipeJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	return r.queries.InsertRecipe(ctx, db.InsertRecipeParams{
		ID:        rec.ID,
		Data:      string(recipeJSON),
		UpdatedAt: parseUpdatedAt(rec.UpdatedAt, rec.ID),
	})
}

// SaveEnhanced inserts or updates an enhanced recipe variant.
func (r *Repository) SaveEnhanced(ctx context.Context, enh Enhanced) error {
	enhancedJSON, err := json.Marshal(enh)
	if err != nil {
		return fmt.Errorf("failed to marshal enhanced recipe to JSON: %w", err)
	}

	return r.queries.InsertEnhancedRecipe(ctx, db.InsertEnhancedRecipeParams{
		RecipeID:  enh.ID,
		Data:      string(enhancedJSON),
		UpdatedAt: parseUpdatedAt(enh.EnhancedAt, enh.ID),
	})
}

// Get retrieves a recipe by its ID. Returns (nil, nil) when not found.
// An enhanced variant, when present, takes precedence.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	merged, err := r.Resolve(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	rec, ok := merged[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// GetBySourceURL retrieves a recipe previously imported from the given URL.
// Returns (nil, nil) when not found.
func (r *Repository) GetBySourceURL(ctx context.Context, url string) (*Recipe, error) {
	dbRecipe, err := r.queries.GetRecipeBySourceURL(ctx, url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by source URL: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(dbRecipe.Data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &rec, nil
}

// Resolve retrieves recipes by ID as a lookup map, merging enhanced variants
// over regular recipes. Unknown IDs are simply absent from the result; a
// recipe may have been deleted after being planned.
func (r *Repository) Resolve(ctx context.Context, ids []string) (map[string]Recipe, error) {
	if len(ids) == 0 {
		return map[string]Recipe{}, nil
	}

	dbRecipes, err := r.queries.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes by IDs: %w", err)
	}

	resolved := make(map[string]Recipe, len(dbRecipes))
	for _, dbRec := range dbRecipes {
		var rec Recipe
		if err := json.Unmarshal([]byte(dbRec.Data), &rec); err != nil {
			logger.Warn("failed to unmarshal recipe JSON, skipping",
				zap.String("recipe_id", dbRec.ID), zap.Error(err))
			continue
		}
		resolved[rec.ID] = rec
	}

	dbEnhanced, err := r.queries.GetEnhancedRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get enhanced recipes by IDs: %w", err)
	}
	for _, dbEnh := range dbEnhanced {
		var enh Enhanced
		if err := json.Unmarshal([]byte(dbEnh.Data), &enh); err != nil {
			logger.Warn("failed to unmarshal enhanced recipe JSON, skipping",
				zap.String("recipe_id", dbEnh.RecipeID), zap.Error(err))
			continue
		}
		resolved[enh.ID] = enh.Recipe
	}

	return resolved, nil
}

// List retrieves the full catalog with enhanced variants merged in.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	dbRecipes, err := r.queries.ListAllRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	var regular []Recipe
	for _, dbRec := range dbRecipes {
		var rec Recipe
		if err := json.Unmarshal([]byte(dbRec.Data), &rec); err != nil {
			logger.Warn("failed to unmarshal recipe JSON, skipping",
				zap.String("recipe_id", dbRec.ID), zap.Error(err))
			continue
		}
		regular = append(regular, rec)
	}

	dbEnhanced, err := r.queries.ListAllEnhancedRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enhanced recipes: %w", err)
	}

	var enhanced []Enhanced
	for _, dbEnh := range dbEnhanced {
		var enh Enhanced
		if err := json.Unmarshal([]byte(dbEnh.Data), &enh); err != nil {
			logger.Warn("failed to unmarshal enhanced recipe JSON, skipping",
				zap.String("recipe_id", dbEnh.RecipeID), zap.Error(err))
			continue
		}
		enhanced = append(enhanced, enh)
	}

	return MergeCatalog(regular, enhanced), nil
}

// Count returns the number of recipes in the catalog.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return int(count), nil
}

// Delete removes a recipe and its enhanced variant from the catalog.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.queries.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if err := r.queries.DeleteEnhancedRecipe(ctx, id); err != nil {
		return fmt.Errorf("failed to delete enhanced recipe: %w", err)
	}
	return nil
}
