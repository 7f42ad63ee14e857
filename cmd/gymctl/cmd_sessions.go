package main

import (
	"fmt"
	"time"

	"gym-dashboard/internal/auth"

	"github.com/spf13/cobra"
)

var purgeSessionsCmd = &cobra.Command{
	Use:   "purge-sessions",
	Short: "Delete expired sign-in sessions",
	Long: `Delete expired sign-in sessions from the database.

Sign-out events from this command stay in the gymctl process. A running
server does not see them, so its open browser tabs learn about the removed
sessions on the server's own purge tick (every minute) or on their next
request. The server purges on its own; this command is for databases with no
server attached.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, logger, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		defer func() { _ = logger.Sync() }()

		provider := auth.NewProvider(auth.NewPGStore(pool), "", time.Hour, logger)
		n, err := provider.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", n)
		return nil
	},
}
