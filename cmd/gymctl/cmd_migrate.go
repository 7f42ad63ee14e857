package main

import (
	"fmt"

	"gym-dashboard/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema migrations",
	Long: `Apply every embedded SQL migration in name order.

Applied migrations are recorded with a checksum in schema_migrations and
skipped on later runs. Editing an applied file is reported as an error.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	pool, logger, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer func() { _ = logger.Sync() }()

	statuses, err := migrations.Apply(ctx, pool, logger)
	for _, s := range statuses {
		verb := "skipped"
		if s.Applied {
			verb = "applied"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, s.Filename)
	}
	return err
}
