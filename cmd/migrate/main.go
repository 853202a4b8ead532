package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go-ats-backend/config"
	"go-ats-backend/pkg/database"
	"go-ats-backend/pkg/database/migrations"
	"go-ats-backend/pkg/logger"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var timeout time.Duration

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the ATS database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), timeout, func(ctx context.Context, m *database.Migrator) error {
					return m.Up(ctx, migrations.All)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest applied migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), timeout, func(ctx context.Context, m *database.Migrator) error {
					return m.Down(ctx, migrations.All)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and when they were applied",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), timeout, func(ctx context.Context, m *database.Migrator) error {
					if err := m.CreateMigrationsTable(ctx); err != nil {
						return err
					}
					applied, err := m.GetAppliedMigrations(ctx)
					if err != nil {
						return err
					}

					table := tablewriter.NewWriter(cmd.OutOrStdout())
					table.SetHeader([]string{"Version", "Description", "Applied At"})
					for _, mig := range migrations.All {
						at := "pending"
						if t, ok := applied[mig.Version]; ok {
							at = t.Format(time.RFC3339)
						}
						table.Append([]string{fmt.Sprintf("%03d", mig.Version), mig.Description, at})
					}
					table.Render()
					return nil
				})
			},
		},
	)
	return root
}

func withMigrator(parent context.Context, timeout time.Duration, fn func(context.Context, *database.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log, err := logger.Init(cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.DefaultPoolConfig, log)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	defer pool.Close()

	if err := fn(ctx, database.NewMigrator(pool, log)); err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}
	log.Info("migration command finished")
	return nil
}
