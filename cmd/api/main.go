package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/yt-insights/ideator/internal/ai"
	"github.com/yt-insights/ideator/internal/api"
	"github.com/yt-insights/ideator/internal/config"
	"github.com/yt-insights/ideator/internal/logger"
	"github.com/yt-insights/ideator/internal/models"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Warn(".env file not found")
	}

	ctx := context.Background()

	// A nil store disables insight caching.
	var store api.EngagementStore
	if cfg.DBPath != "" {
		db, err := models.NewDatabase(cfg.DBPath)
		if err != nil {
			log.Fatal("Failed to initialize database", logger.Error(err))
		}
		defer db.Close()
		store = db
		log.Info("Connected to SQLite Cloud", logger.String("db", models.MaskConnectionString(cfg.DBPath)))
	} else {
		log.Warn("DB_PATH not set, insight caching disabled")
	}

	youtubeAPI, err := api.NewYouTubeAPI(ctx, cfg.YouTubeAPIKey, log)
	if err != nil {
		log.Fatal("Failed to initialize YouTube API", logger.Error(err))
	}

	if cfg.AI.APIKey == "" {
		log.Warn("No AI API key configured, insights will use the fallback result",
			logger.String("provider", cfg.AI.Provider),
		)
	}
	provider, err := ai.NewProvider(ctx, ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI provider", logger.Error(err))
	}

	generator := ai.NewGenerator(provider, log.With(logger.String("component", "generator")))
	insights := api.NewInsightsHandler(youtubeAPI, generator, store, log, cfg.InsightsTimeout, cfg.RecentVideoLimit)

	server := api.NewServer(youtubeAPI, insights, cfg.AllowedOrigins, log)
	if err := server.Start(cfg.Port); err != nil {
		log.Fatal("Failed to start server", logger.Error(err))
	}
}
