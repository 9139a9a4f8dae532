package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"btc-signal-bot/internal/db"
	"btc-signal-bot/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type migrator interface {
	Up(ctx context.Context) (int, error)
	Down(ctx context.Context, steps int) (int, error)
	Version(ctx context.Context) (int64, string, error)
}

var (
	loadEnvFunc      = godotenv.Load
	openMigratorFunc = openMigrator
)

func main() {
	_ = loadEnvFunc()
	logging.Setup(os.Getenv("LOG_LEVEL"), "migrate")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal("migrate failed", "err", err)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back the btc-signal-bot database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dsn, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")

	withMigrator := func(run func(ctx context.Context, cmd *cobra.Command, m migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(dsn) == "" {
				return errors.New("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			m, closeFn, err := openMigratorFunc(ctx, dsn)
			if err != nil {
				return err
			}
			defer closeFn()
			return run(ctx, cmd, m)
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(ctx context.Context, cmd *cobra.Command, m migrator) error {
			applied, err := m.Up(ctx)
			if err != nil {
				return fmt.Errorf("apply migrations up: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations up complete (%d applied)\n", applied)
			return nil
		}),
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(ctx context.Context, cmd *cobra.Command, m migrator) error {
			if steps <= 0 {
				return fmt.Errorf("invalid down steps: %d", steps)
			}
			rolledBack, err := m.Down(ctx, steps)
			if err != nil {
				return fmt.Errorf("apply migrations down: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations down complete (%d rolled back)\n", rolledBack)
			return nil
		}),
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of versions to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(ctx context.Context, cmd *cobra.Command, m migrator) error {
			v, name, err := m.Version(ctx)
			if err != nil {
				return fmt.Errorf("read current version: %w", err)
			}
			if v == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "current version: %d (%s)\n", v, name)
			return nil
		}),
	}

	root.AddCommand(up, down, version)
	return root
}

func openMigrator(ctx context.Context, dsn string) (migrator, func(), error) {
	migrations, err := db.LoadMigrations(db.MigrationsFS)
	if err != nil {
		return nil, nil, fmt.Errorf("load migrations: %w", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db.NewMigrator(pool, migrations), pool.Close, nil
}
