package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jobmatch-backend/internal/shared/storage/db"
)

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withDB(cmd.Context(), func(ctx context.Context, sqlDB *sql.DB) error {
					if err := db.RunMigrations(ctx, sqlDB); err != nil {
						return err
					}
					version, err := db.MigrationVersion(ctx, sqlDB)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print applied and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withDB(cmd.Context(), db.MigrationStatus)
			},
		},
	)
	return cmd
}

func (c *cli) withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database url is required (--database-url or MATCHCTL_DATABASE_URL)")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return fn(ctx, sqlDB)
}
