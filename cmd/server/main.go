package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/SIT-Team-4/KABAS/internal/adapter/metrics"
	"github.com/SIT-Team-4/KABAS/internal/adapter/postgres"
	"github.com/SIT-Team-4/KABAS/internal/app"
	"github.com/SIT-Team-4/KABAS/internal/crypto"
	"github.com/SIT-Team-4/KABAS/internal/platform/config"
	"github.com/SIT-Team-4/KABAS/internal/platform/logging"
	"github.com/SIT-Team-4/KABAS/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	vault, err := crypto.NewVault(cfg.EncryptionKey)
	if err != nil {
		slog.Error("Failed to create crypto vault", "error", err)
		os.Exit(1)
	}

	classGroupRepo := postgres.NewClassGroupRepo(pool)
	teamRepo := postgres.NewTeamRepo(pool)
	credentialRepo := postgres.NewCredentialRepo(pool, vault)

	registry := metrics.NewRegistry()
	providerMetrics := metrics.NewProviderMetrics(registry)

	appSvc := app.NewService(
		classGroupRepo,
		teamRepo,
		credentialRepo,
		app.DefaultGitHubFactory,
		app.DefaultJiraFactory,
		clock,
		providerMetrics,
	)

	srv := server.NewServer(cfg, appSvc, pool, registry)
	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
