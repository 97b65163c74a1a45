package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/config"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/database"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/search"
	"go.uber.org/zap"
)

func main() {
	// Parse command
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up", "reindex":
	default:
		fmt.Println("Usage: migrate [up|reindex]")
		fmt.Println("  up      - Run all pending migrations")
		fmt.Println("  reindex - Rebuild the video search index from the database")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.LogLevel, "migrate.log"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := database.Initialize(cfg.Database, cfg.Environment, false); err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp()
	case "reindex":
		runReindex(cfg.Search)
	}
}

func runMigrationsUp() {
	logger.Log.Info("Running migrations...")
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Migration failed", err)
	}
	logger.Log.Info("All migrations completed successfully")
}

func runReindex(cfg config.SearchConfig) {
	if cfg.ElasticsearchURL == "" {
		logger.FatalWithFields("ELASTICSEARCH_URL is not set", nil)
	}

	client, err := search.NewClient(cfg.ElasticsearchURL)
	if err != nil {
		logger.FatalWithFields("Failed to create search client", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := client.EnsureIndex(ctx); err != nil {
		logger.FatalWithFields("Failed to create search index", err)
	}

	start := time.Now()
	n, err := search.Reindex(ctx, database.DB, client)
	if err != nil {
		logger.FatalWithFields("Reindex failed", err)
	}
	logger.InfoWithFields("Reindex completed",
		zap.Int("videos", n),
		logger.WithDuration(time.Since(start)),
	)
}
