// gymctl is the operator tool: it applies the schema, creates gym owners, and
// clears expired sessions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gym-dashboard/internal/config"
	"gym-dashboard/internal/db"
	"gym-dashboard/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cliConfig is the subset of the server environment gymctl needs.
type cliConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "gymctl",
	Short:         "Operate the gym dashboard database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	ownerCmd.Flags().String("email", "", "Owner email (required)")
	ownerCmd.Flags().String("password", "", "Owner password (or set GYMCTL_PASSWORD)")
	ownerCmd.Flags().String("owner-name", "", "Name shown in the dashboard header")
	ownerCmd.Flags().String("gym-name", "", "Gym name shown in the dashboard header")
	_ = ownerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ownerCmd)
	rootCmd.AddCommand(purgeSessionsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gymctl:", err)
		os.Exit(1)
	}
}

// connect loads the environment and opens the pool and logger every sub-command uses.
func connect(ctx context.Context) (*pgxpool.Pool, *zap.Logger, error) {
	_ = godotenv.Load()

	cfg := &cliConfig{}
	if err := config.ParseEnv(cfg); err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	return pool, logger, nil
}
