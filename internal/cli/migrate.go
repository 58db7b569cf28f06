package cli

import (
	"context"
	"log/slog"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/repository"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), *configPath)
		},
	}
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)

	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer repository.CloseDB(db, logger)

	if err := repository.AutoMigrate(db); err != nil {
		logger.Error("Migration failed", slog.Any("error", err))
		return err
	}
	logger.Info("Migrations applied", slog.Int("models", len(repository.Models())))
	return nil
}
