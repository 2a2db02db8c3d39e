package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/config"
	"swag-quiz-service/internal/infra/postgres"
)

// NewMigrateCmd applies database migrations and optionally seeds the catalog.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the built-in question catalog after migrating")
	return cmd
}

func runMigrations(ctx context.Context, configPath string, seed bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stdout, cfg)
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	group, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info("no new migrations")
	} else {
		logger.Info("migrations applied", "group", group.String())
	}

	if !seed {
		return nil
	}
	return seedCatalog(ctx, cfg.Postgres.URL, logger)
}

func seedCatalog(ctx context.Context, dsn string, logger *slog.Logger) error {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	inserted, err := postgres.SeedCatalog(ctx, pool, catalog.Default())
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("catalog seeded", "inserted", inserted)
	return nil
}
