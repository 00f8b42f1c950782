package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
)

// migrationCommands lists the goose commands accepted by -migrate.
var migrationCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"reset":   true,
	"version": true,
	"redo":    true,
}

// handleMigrations runs a goose command against db using the embedded
// migration files.
func handleMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger, command string, args ...string) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unknown migration command %q", command)
	}

	logger.Info("executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, logger, command, args...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
