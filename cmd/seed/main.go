package main

import (
	"context"
	"fmt"
	"os"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/auth"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/config"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/database"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/seed"
)

func main() {
	// Parse command
	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev", "clean":
	default:
		fmt.Println("Usage: seed [dev|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production database")
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.LogLevel, "seed.log"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := database.Initialize(cfg.Database, cfg.Environment, false); err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	ctx := context.Background()
	seeder := seed.NewSeeder(database.DB, 0)

	switch command {
	case "dev":
		seedDev(ctx, cfg, seeder)
	case "clean":
		if err := seeder.Clean(ctx); err != nil {
			logger.FatalWithFields("Clean failed", err)
		}
		logger.Log.Info("Seed data cleaned successfully")
	}
}

func seedDev(ctx context.Context, cfg *config.Config, seeder *seed.Seeder) {
	res, err := seeder.SeedDev(ctx)
	if err != nil {
		logger.FatalWithFields("Seeding failed", err)
	}

	authService := auth.NewService(database.DB, []byte(cfg.JWT.Secret), cfg.JWT.TTL)

	fmt.Printf("\nSeeded %d users (password %q). Bearer tokens:\n\n", len(res.Users), seed.DefaultPassword)
	for i := range res.Users {
		token, err := authService.IssueToken(&res.Users[i])
		if err != nil {
			logger.FatalWithFields("Failed to issue token", err)
		}
		fmt.Printf("%-24s %s\n", res.Users[i].Username, token.Token)
	}
}
