package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"veckomeny/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	defer logger.Sync()

	cfg, err := config.NewFromEnv()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.RequireTelegram(); err != nil {
		logger.Fatal("missing telegram configuration", zap.Error(err))
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

	bot, err := telegram.NewBot(cfg, application, tr)
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		logger.Info("bot server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
