package main

import (
	"github.com/spf13/cobra"

	"github.com/fuhrahmann/travel-app-backend/internal/infrastructure/db/mongo"
	"github.com/fuhrahmann/travel-app-backend/internal/infrastructure/db/postgres"
	"github.com/fuhrahmann/travel-app-backend/internal/pkg/config"
	"github.com/fuhrahmann/travel-app-backend/pkg/logger"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the configured storage schema",
		Long: `Apply the embedded SQL migrations when STORAGE_DRIVER=postgres,
or create the MongoDB indexes when STORAGE_DRIVER=mongo.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "travel-api"})

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return err
		}
	default:
		db, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(ctx) }()

		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	log.Info().Str("storage", cfg.StorageDriver).Msg("migrations completed")
	return nil
}
