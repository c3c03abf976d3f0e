package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"veckomeny/internal/app"
	"veckomeny/internal/config"
	"veckomeny/internal/database"
	"veckomeny/internal/enhance"
	"veckomeny/internal/grocery"
	"veckomeny/internal/household"
	"veckomeny/internal/i18n"
	"veckomeny/internal/importer"
	"veckomeny/internal/logger"
	"veckomeny/internal/mealplan"
	"veckomeny/internal/recipe"
	"veckomeny/internal/storage"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	defer logger.Sync()

	cfg, err := config.NewFromEnv()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	tr, err := i18n.New(cfg.Locale)
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	store, err := storage.NewStore(cfg.StatePath)
	if err != nil {
		logger.Fatal("failed to initialize state store", zap.Error(err))
	}

	rules, err := grocery.LoadRules(cfg.Locale)
	if err != nil {
		logger.Fatal("failed to load ingredient rules", zap.Error(err))
	}
	builder := grocery.NewBuilder(rules, grocery.NewLabeler(tr.T("servings")))

	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := mealplan.NewRepository(db.SQL)
	householdRepo := household.NewRepository(db.SQL)
	grocerySvc := grocery.NewService(builder, store, recipeRepo, planRepo, householdRepo, cfg.HouseholdID)

	var scraper *importer.ScraperClient
	if cfg.ScraperAPIURL != "" {
		scraper = importer.NewScraperClient(cfg.ScraperAPIURL, cfg.ScraperAPIKey)
	}
	var enhancer *enhance.Client
	if cfg.EnhancerAPIURL != "" {
		enhancer = enhance.NewClient(cfg.EnhancerAPIURL, cfg.EnhancerAPIKey)
	}
	var syncClient household.SyncClient
	if cfg.SyncAPIURL != "" {
		syncClient = household.NewSyncClient(cfg.SyncAPIURL, cfg.SyncAPIKey)
	}

	application := app.NewApp(
		cfg,
		db,
		recipeRepo,
		planRepo,
		householdRepo,
		grocerySvc,
		importer.New(scraper, importer.NewExtractor()),
		enhancer,
		syncClient,
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, application, tr, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, tr *i18n.Translator, command string, args []string) error {
	switch command {
	case "import":
		return runImport(ctx, a, args)
	case "enhance":
		if len(args) != 1 {
			return fmt.Errorf("usage: veckomeny enhance <recipe-id>")
		}
		return a.EnhanceRecipe(ctx, args[0])
	case "recipes":
		return runRecipes(ctx, a)
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: veckomeny delete <recipe-id>")
		}
		return a.DeleteRecipe(ctx, args[0])
	case "plan":
		return runPlan(ctx, a, args)
	case "servings":
		if len(args) != 2 {
			return fmt.Errorf("usage: veckomeny servings <day:meal> <count>")
		}
		count, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid serving count %q", args[1])
		}
		return a.SetServings(args[0], count)
	case "list":
		return runList(ctx, a, tr, args)
	case "athome":
		return runAtHome(ctx, a, args)
	case "sync":
		return runSync(ctx, a, args)
	case "status":
		return runStatus(ctx, a)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runImport(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: veckomeny import <url>")
	}

	rec, created, err := a.ImportRecipe(ctx, args[0])
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("Already imported: %s (%s)\n", rec.Title, rec.ID)
		return nil
	}
	fmt.Printf("Imported: %s (%s)\n", rec.Title, rec.ID)
	return nil
}

func runRecipes(ctx context.Context, a *app.App) error {
	recipes, err := a.Recipes(ctx)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Println("Empty catalog. Import a recipe URL to get started.")
		return nil
	}
	for _, rec := range recipes {
		fmt.Printf("%-38s %s (%d servings)\n", rec.ID, rec.Title, rec.Servings)
	}
	return nil
}

func runPlan(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return printPlan(ctx, a)
	}

	switch args[0] {
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: veckomeny plan set <day:meal> <recipe-id|custom>")
		}
		if err := a.SetSlot(ctx, args[1], args[2]); err != nil {
			return err
		}
	case "clear":
		if len(args) != 2 {
			return fmt.Errorf("usage: veckomeny plan clear <day:meal>")
		}
		if err := a.ClearSlot(ctx, args[1]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown plan subcommand: %s", args[0])
	}
	return printPlan(ctx, a)
}

func printPlan(ctx context.Context, a *app.App) error {
	plan, err := a.CurrentPlan(ctx)
	if err != nil {
		return err
	}

	titles := map[string]string{}
	if recipes, err := a.Recipes(ctx); err == nil {
		for _, rec := range recipes {
			titles[rec.ID] = rec.Title
		}
	}

	fmt.Printf("Week of %s\n", plan.WeekStart.Format("2006-01-02"))
	slots := plan.OrderedSlots()
	if len(slots) == 0 {
		fmt.Println("  (no meals planned)")
		return nil
	}
	for _, slot := range slots {
		id := plan.Slots[slot]
		title := titles[id]
		if id == mealplan.CustomMarker {
			title = "custom meal"
		} else if title == "" {
			title = id
		}
		fmt.Printf("  %-20s %s\n", slot, title)
	}
	return nil
}

func runList(ctx context.Context, a *app.App, tr *i18n.Translator, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "add":
			if len(args) < 2 {
				return fmt.Errorf("usage: veckomeny list add <item>")
			}
			if err := a.AddCustomItem(strings.Join(args[1:], " ")); err != nil {
				return err
			}
		case "toggle":
			if len(args) < 2 {
				return fmt.Errorf("usage: veckomeny list toggle <item>")
			}
			if err := a.ToggleItem(strings.Join(args[1:], " ")); err != nil {
				return err
			}
		case "check", "uncheck":
			if len(args) < 2 {
				return fmt.Errorf("usage: veckomeny list %s <item>", args[0])
			}
			if err := a.SetItemChecked(strings.Join(args[1:], " "), args[0] == "check"); err != nil {
				return err
			}
		case "clear":
			if err := a.ClearList(); err != nil {
				return err
			}
			fmt.Println(tr.T("cleared_all"))
			return nil
		case "clearchecked":
			if err := a.ClearChecked(); err != nil {
				return err
			}
			fmt.Println(tr.T("cleared_checked"))
			return nil
		default:
			return fmt.Errorf("unknown list subcommand: %s", args[0])
		}
	}

	list := a.ShoppingList(ctx)
	fmt.Println(tr.T("shopping_list"))
	if len(list.Items) == 0 {
		fmt.Printf("  %s\n", tr.T("empty_list"))
		return nil
	}
	for _, item := range list.Items {
		box := "[ ]"
		if item.Checked {
			box = "[x]"
		}
		line := fmt.Sprintf("  %s %s", box, item.Name)
		if len(item.RecipeSources) > 0 {
			line += fmt.Sprintf("  (%s)", strings.Join(item.RecipeSources, ", "))
		}
		fmt.Println(line)
	}

	c := list.Counters
	fmt.Printf("\n%d %s", c.ToBuy, tr.T("items_to_buy"))
	if c.CheckedToBuy > 0 {
		fmt.Printf(", %d %s", c.CheckedToBuy, tr.T("checked"))
	}
	if c.HiddenAtHome > 0 {
		fmt.Printf(", %d %s", c.HiddenAtHome, tr.T("at_home"))
	}
	fmt.Println()
	return nil
}

func runAtHome(ctx context.Context, a *app.App, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "add":
			if len(args) < 2 {
				return fmt.Errorf("usage: veckomeny athome add <item>")
			}
			if err := a.AddAtHome(ctx, strings.Join(args[1:], " ")); err != nil {
				return err
			}
		case "remove":
			if len(args) < 2 {
				return fmt.Errorf("usage: veckomeny athome remove <item>")
			}
			if err := a.RemoveAtHome(ctx, strings.Join(args[1:], " ")); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown athome subcommand: %s", args[0])
		}
	}

	items := a.AtHomeItems(ctx)
	if len(items) == 0 {
		fmt.Println("No staples marked as at home.")
		return nil
	}
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	return nil
}

func runSync(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: veckomeny sync <push|pull>")
	}

	switch args[0] {
	case "push":
		if err := a.PushSettings(ctx); err != nil {
			return err
		}
		fmt.Println("Settings pushed.")
	case "pull":
		settings, err := a.PullSettings(ctx)
		if err != nil {
			return err
		}
		if settings == nil {
			fmt.Println("No settings on the backend yet.")
			return nil
		}
		fmt.Printf("Settings pulled: %d items at home, %d dietary preferences.\n",
			len(settings.ItemsAtHome), len(settings.DietaryPreferences))
	default:
		return fmt.Errorf("unknown sync subcommand: %s", args[0])
	}
	return nil
}

func runStatus(ctx context.Context, a *app.App) error {
	status, err := a.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Recipes:        %d\n", status.RecipeCount)
	fmt.Printf("Week of %s: %d meals planned\n", status.WeekStart.Format("2006-01-02"), status.PlannedMeals)
	fmt.Printf("Shopping list:  %d items, %d to buy\n", status.ListTotal, status.ListToBuy)
	fmt.Printf("Memory:         %dMB alloc / %dMB sys\n", status.Health.AllocMB, status.Health.SysMB)
	fmt.Printf("Goroutines:     %d\n", status.Health.Goroutines)
	fmt.Printf("State on disk:  %s\n", status.Health.DataDiskSize)
	return nil
}

func printUsage() {
	fmt.Println("Usage: veckomeny <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  import <url>                         Import a recipe into the catalog")
	fmt.Println("  enhance <recipe-id>                  Run the AI enhancer over a recipe")
	fmt.Println("  recipes                              List the recipe catalog")
	fmt.Println("  delete <recipe-id>                   Remove a recipe from the catalog")
	fmt.Println("  plan [set|clear] ...                 Show or edit this week's meal plan")
	fmt.Println("  servings <day:meal> <count>          Override servings for a planned meal")
	fmt.Println("  list [add|toggle|check|uncheck|clear|clearchecked]")
	fmt.Println("                                       Show or edit the shopping list")
	fmt.Println("  athome [add|remove] ...              Manage staples already at home")
	fmt.Println("  sync <push|pull>                     Sync household settings")
	fmt.Println("  status                               Show catalog, plan, and process health")
}
