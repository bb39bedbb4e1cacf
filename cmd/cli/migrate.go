package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iho/gosettle/internal/infrastructure/config"
	"github.com/iho/gosettle/internal/infrastructure/logger"
	"github.com/iho/gosettle/internal/infrastructure/postgres"
)

var (
	runMigrationsUp   = postgres.RunMigrations
	runMigrationsDown = postgres.RunMigrationsDown
)

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	resolve := func() (string, string, error) {
		cfg, err := config.Load()
		if err != nil {
			return "", "", err
		}
		if databaseURL == "" {
			databaseURL = cfg.DatabaseURL
		}
		if path == "" {
			path = cfg.MigrationsPath
		}
		return databaseURL, path, nil
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (defaults to MIGRATIONS_PATH)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dbURL, dir, err := resolve()
				if err != nil {
					return err
				}
				log := logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, os.Stderr)
				return runMigrationsUp(log, dbURL, dir)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dbURL, dir, err := resolve()
				if err != nil {
					return err
				}
				log := logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, os.Stderr)
				return runMigrationsDown(log, dbURL, dir)
			},
		},
	)

	return cmd
}
