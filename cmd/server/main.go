// Package main implements the entry point for the FlashGenius API server,
// which stores users' AI-generated study flashcard sets and handles
// account management and flashcard generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command and exit: up, down or status")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("flashgenius-api: %v", err)
	}
}

// run wires configuration, logging, storage and the HTTP server together.
// A non-empty migrateCmd executes the named migration command and returns
// without starting the server.
func run(migrateCmd string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDatabase(db, appLogger)
		return runMigrationCommand(ctx, db, migrateCmd, appLogger)
	}

	// A plain start applies pending migrations before serving traffic.
	if err := postgres.MigrateUp(ctx, db); err != nil {
		closeDatabase(db, appLogger)
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		closeDatabase(db, appLogger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
