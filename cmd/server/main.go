package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "gym-dashboard/internal/adapters/web"
	"gym-dashboard/internal/app"
	"gym-dashboard/internal/auth"
	"gym-dashboard/internal/config"
	"gym-dashboard/internal/core"
	"gym-dashboard/internal/db"
	"gym-dashboard/internal/logging"
	"gym-dashboard/internal/shell"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	members := core.NewMemberService(pool)
	payments := core.NewPaymentService(pool)
	state := core.NewStateService(
		core.NewProfileService(pool),
		core.NewBranchService(pool),
		core.NewPlanService(pool),
		members,
		payments,
		core.NewReminderService(pool),
	)

	provider := auth.NewProvider(auth.NewPGStore(pool), cfg.JWTSecret, cfg.SessionTTL, logger)
	provider.StartPurge(ctx, time.Minute)

	shells := shell.NewRegistry(cfg.ShellIdleTTL, logger)
	shells.StartPurge(ctx, 5*time.Minute)

	// Closed by Shutdown so open /events streams return instead of holding it open.
	draining := make(chan struct{})

	svc := app.NewAppService(pool, provider, state, members, payments)
	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		CookieSecure:   cfg.CookieSecure,
		Logger:         logger,
		Shells:         shells,
		Draining:       draining,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(func() { close(draining) })

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
