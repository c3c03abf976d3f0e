package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"veckomeny/internal/config"
	"veckomeny/internal/database"
	"veckomeny/internal/enhance"
	"veckomeny/internal/grocery"
	"veckomeny/internal/health"
	"veckomeny/internal/household"
	"veckomeny/internal/importer"
	"veckomeny/internal/logger"
	"veckomeny/internal/mealplan"
	"veckomeny/internal/recipe"
)

// App holds the application's dependencies and exposes the operations the
// CLI and the bot surface share.
type App struct {
	cfg *config.Config

	db            *database.DB
	recipeRepo    *recipe.Repository
	planRepo      *mealplan.Repository
	householdRepo *household.Repository
	grocery       *grocery.Service
	importer      *importer.Importer
	enhancer      *enhance.Client      // nil when no backend configured
	syncClient    household.SyncClient // nil when no backend configured

	now func() time.Time
}

// NewApp creates and initializes a new App instance. enhancer and syncClient
// may be nil.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	recipeRepo *recipe.Repository,
	planRepo *mealplan.Repository,
	householdRepo *household.Repository,
	grocerySvc *grocery.Service,
	imp *importer.Importer,
	enhancer *enhance.Client,
	syncClient household.SyncClient,
) *App {
	return &App{
		cfg:           cfg,
		db:            db,
		recipeRepo:    recipeRepo,
		planRepo:      planRepo,
		householdRepo: householdRepo,
		grocery:       grocerySvc,
		importer:      imp,
		enhancer:      enhancer,
		syncClient:    syncClient,
		now:           time.Now,
	}
}

// ImportRecipe imports the recipe at url into the catalog. A URL already in
// the catalog is not re-imported; the existing recipe is returned with
// created=false. When an enhancement backend is configured the imported
// recipe is enhanced in the same call; enhancement failures only log.
func (a *App) ImportRecipe(ctx context.Context, url string) (*recipe.Recipe, bool, error) {
	existing, err := a.recipeRepo.GetBySourceURL(ctx, url)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check catalog for %s: %w", url, err)
	}
	if existing != nil {
		logger.Info("recipe already in catalog, skipping import",
			zap.String("url", url), zap.String("recipe_id", existing.ID))
		return existing, false, nil
	}

	rec, err := a.importer.Import(ctx, url)
	if err != nil {
		return nil, false, err
	}
	if err := a.recipeRepo.Save(ctx, *rec); err != nil {
		return nil, false, fmt.Errorf("failed to save imported recipe: %w", err)
	}
	logger.Info("recipe imported",
		zap.String("recipe_id", rec.ID), zap.String("title", rec.Title))

	if a.enhancer != nil {
		if err := a.EnhanceRecipe(ctx, rec.ID); err != nil {
			logger.Warn("failed to enhance imported recipe",
				zap.String("recipe_id", rec.ID), zap.Error(err))
		}
	}
	return rec, true, nil
}

// EnhanceRecipe runs the enhancement backend over a catalog recipe and
// stores the result. The enhanced version takes precedence on reads.
func (a *App) EnhanceRecipe(ctx context.Context, id string) error {
	if a.enhancer == nil {
		return fmt.Errorf("no enhancement backend configured")
	}
	rec, err := a.recipeRepo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load recipe %s: %w", id, err)
	}
	if rec == nil {
		return fmt.Errorf("recipe %s not found", id)
	}

	enhanced, err := a.enhancer.Enhance(ctx, *rec)
	if err != nil {
		return err
	}
	if err := a.recipeRepo.SaveEnhanced(ctx, *enhanced); err != nil {
		return fmt.Errorf("failed to save enhanced recipe: %w", err)
	}
	logger.Info("recipe enhanced",
		zap.String("recipe_id", id), zap.String("model", enhanced.Model))
	return nil
}

// Recipes lists the catalog, enhanced versions taking precedence.
func (a *App) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	return a.recipeRepo.List(ctx)
}

// Recipe looks up one catalog recipe by ID.
func (a *App) Recipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	return a.recipeRepo.Get(ctx, id)
}

// DeleteRecipe removes a recipe and its enhanced version from the catalog.
func (a *App) DeleteRecipe(ctx context.Context, id string) error {
	return a.recipeRepo.Delete(ctx, id)
}

// CurrentPlan returns this week's meal plan, or an empty plan when none is
// stored yet.
func (a *App) CurrentPlan(ctx context.Context) (*mealplan.Plan, error) {
	weekStart := mealplan.WeekStartOf(a.now())
	plan, err := a.planRepo.GetByWeek(ctx, a.cfg.HouseholdID, weekStart)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		plan = mealplan.NewPlan(weekStart)
	}
	return plan, nil
}

// SetSlot assigns a recipe (or the custom-meal marker) to a slot in this
// week's plan and includes the slot in the shopping list selection.
func (a *App) SetSlot(ctx context.Context, slot, recipeID string) error {
	key, err := mealplan.ParseSlotKey(slot)
	if err != nil {
		return err
	}
	if recipeID != mealplan.CustomMarker {
		rec, err := a.recipeRepo.Get(ctx, recipeID)
		if err != nil {
			return fmt.Errorf("failed to look up recipe %s: %w", recipeID, err)
		}
		if rec == nil {
			return fmt.Errorf("recipe %s not found", recipeID)
		}
	}

	plan, err := a.CurrentPlan(ctx)
	if err != nil {
		return err
	}
	plan.Assign(key, recipeID)
	if err := a.planRepo.Save(ctx, a.cfg.HouseholdID, plan); err != nil {
		return err
	}
	return a.grocery.Select(string(key))
}

// ClearSlot removes the assignment from a slot and drops it from the
// shopping list selection.
func (a *App) ClearSlot(ctx context.Context, slot string) error {
	key, err := mealplan.ParseSlotKey(slot)
	if err != nil {
		return err
	}
	plan, err := a.CurrentPlan(ctx)
	if err != nil {
		return err
	}
	plan.Unassign(key)
	if err := a.planRepo.Save(ctx, a.cfg.HouseholdID, plan); err != nil {
		return err
	}
	return a.grocery.Deselect(string(key))
}

// SetServings stores a per-slot serving override for list scaling.
func (a *App) SetServings(slot string, servings int) error {
	key, err := mealplan.ParseSlotKey(slot)
	if err != nil {
		return err
	}
	return a.grocery.SetServings(string(key), servings)
}

// ShoppingList derives the current shopping list.
func (a *App) ShoppingList(ctx context.Context) grocery.List {
	return a.grocery.BuildList(ctx)
}

// ToggleItem flips the purchased state of a list item by name.
func (a *App) ToggleItem(name string) error {
	checked := a.grocery.CheckedItems()
	return a.grocery.Toggle(name, !checked[name])
}

// SetItemChecked marks a list item purchased or not by name.
func (a *App) SetItemChecked(name string, checked bool) error {
	return a.grocery.Toggle(name, checked)
}

// AddCustomItem appends a manually typed item to the list.
func (a *App) AddCustomItem(text string) error {
	return a.grocery.AddCustomItem(text)
}

// ClearChecked unchecks every purchased item.
func (a *App) ClearChecked() error {
	return a.grocery.ClearChecked()
}

// ClearList empties the list selection, custom items, and checked state.
// The meal plan itself is untouched.
func (a *App) ClearList() error {
	return a.grocery.ClearAll()
}

// Settings returns the household settings.
func (a *App) Settings(ctx context.Context) (household.Settings, error) {
	return a.householdRepo.Get(ctx, a.cfg.HouseholdID)
}

// AddAtHome adds a staple to the household's at-home list.
func (a *App) AddAtHome(ctx context.Context, item string) error {
	return a.householdRepo.AddItemAtHome(ctx, a.cfg.HouseholdID, item)
}

// RemoveAtHome removes a staple from the household's at-home list.
func (a *App) RemoveAtHome(ctx context.Context, item string) error {
	return a.householdRepo.RemoveItemAtHome(ctx, a.cfg.HouseholdID, item)
}

// AtHomeItems returns the household's at-home staples.
func (a *App) AtHomeItems(ctx context.Context) []string {
	return a.householdRepo.ItemsAtHome(ctx, a.cfg.HouseholdID)
}

// PushSettings uploads the local household settings to the sync backend.
func (a *App) PushSettings(ctx context.Context) error {
	if a.syncClient == nil {
		return fmt.Errorf("no sync backend configured")
	}
	settings, err := a.householdRepo.Get(ctx, a.cfg.HouseholdID)
	if err != nil {
		return fmt.Errorf("failed to load local settings: %w", err)
	}
	settings.HouseholdID = a.cfg.HouseholdID
	return a.syncClient.Push(ctx, settings)
}

// PullSettings downloads household settings from the sync backend and
// replaces the local copy. A household unknown to the backend leaves the
// local settings untouched.
func (a *App) PullSettings(ctx context.Context) (*household.Settings, error) {
	if a.syncClient == nil {
		return nil, fmt.Errorf("no sync backend configured")
	}
	remote, err := a.syncClient.Fetch(ctx, a.cfg.HouseholdID)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		return nil, nil
	}
	remote.HouseholdID = a.cfg.HouseholdID
	if err := a.householdRepo.Save(ctx, *remote); err != nil {
		return nil, fmt.Errorf("failed to save synced settings: %w", err)
	}
	return remote, nil
}

// Status reports process health alongside catalog and list figures.
type Status struct {
	Health      health.Snapshot
	RecipeCount int
	WeekStart   time.Time
	PlannedMeals int
	ListTotal   int
	ListToBuy   int
}

// Status collects a health and usage snapshot for the current week.
func (a *App) Status(ctx context.Context) (Status, error) {
	count, err := a.recipeRepo.Count(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to count recipes: %w", err)
	}
	plan, err := a.CurrentPlan(ctx)
	if err != nil {
		return Status{}, err
	}
	list := a.grocery.BuildList(ctx)

	return Status{
		Health:      health.Collect(a.cfg.StatePath),
		RecipeCount: count,
		WeekStart:   plan.WeekStart,
		PlannedMeals: len(plan.Slots),
		ListTotal:   list.Counters.Total,
		ListToBuy:   list.Counters.ToBuy,
	}, nil
}
