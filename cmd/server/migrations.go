package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashgenius/flashgenius-api/internal/platform/postgres"
)

// runMigrationCommand executes the migration command named by the -migrate
// flag against the connected database.
func runMigrationCommand(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	logger.Info("running migration command", "command", command)

	switch command {
	case "up":
		if err := postgres.MigrateUp(ctx, db); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		if err := postgres.MigrateDown(ctx, db); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case "status":
		if err := postgres.MigrationStatus(ctx, db); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down or status)", command)
	}

	logger.Info("migration command completed", "command", command)
	return nil
}
