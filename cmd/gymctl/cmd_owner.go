package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gym-dashboard/internal/auth"
	"gym-dashboard/internal/core"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ownerCmd = &cobra.Command{
	Use:   "create-owner",
	Short: "Create a gym owner account",
	Long: `Create a gym owner who can sign in to the dashboard.

The password is read from --password or, if that is empty, from the
GYMCTL_PASSWORD environment variable. When --owner-name or --gym-name is
given the owner's profile is stored too; otherwise the dashboard shows
its defaults.`,
	Args: cobra.NoArgs,
	RunE: runCreateOwner,
}

func runCreateOwner(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	ownerName, _ := cmd.Flags().GetString("owner-name")
	gymName, _ := cmd.Flags().GetString("gym-name")
	if password == "" {
		password = os.Getenv("GYMCTL_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("a password is required: pass --password or set GYMCTL_PASSWORD")
	}

	ctx := cmd.Context()
	pool, logger, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer func() { _ = logger.Sync() }()

	// Registration never signs tokens, so no secret is needed here.
	provider := auth.NewProvider(auth.NewPGStore(pool), "", time.Hour, logger)
	user, err := provider.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("create owner: %w", err)
	}
	logger.Info("owner created", zap.Int("user_id", user.ID), zap.String("email", user.Email))

	ownerName, gymName = strings.TrimSpace(ownerName), strings.TrimSpace(gymName)
	if ownerName != "" || gymName != "" {
		profiles := core.NewProfileService(pool)
		if err := profiles.UpsertProfile(ctx, core.Profile{UserID: user.ID, OwnerName: ownerName, GymName: gymName}); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created owner %s (id %d)\n", user.Email, user.ID)
	return nil
}
