package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideahub/ideahub/internal/api"
	"github.com/ideahub/ideahub/internal/auth"
	"github.com/ideahub/ideahub/internal/collab"
	"github.com/ideahub/ideahub/internal/config"
	"github.com/ideahub/ideahub/internal/directory"
	"github.com/ideahub/ideahub/internal/formation"
	"github.com/ideahub/ideahub/internal/idea"
	"github.com/ideahub/ideahub/internal/rolecatalog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Warn("database unreachable at startup; health will report degraded", "error", err)
	}

	catalog, err := buildCatalog(cfg, pool)
	if err != nil {
		slog.Error("failed to build role catalog", "error", err)
		os.Exit(1)
	}

	userRepo := auth.NewRepository(pool)
	authService := auth.NewService(userRepo, cfg.BcryptCost)
	ideaRepo := idea.NewRepository(pool)
	dir := directory.NewPostgresDirectory(pool)
	suggestions := formation.NewSuggestionService(catalog)
	formationService := formation.NewService(ideaRepo, dir, suggestions, collab.LogNotifier{})

	router := api.NewRouter(api.RouterDeps{
		DBPinger:        pool,
		Version:         cfg.Version,
		AuthService:     authService,
		Ideas:           ideaRepo,
		Formation:       formationService,
		Directory:       dir,
		DefaultTeamSize: cfg.DefaultTeamSize,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting ideahub server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// buildCatalog picks the role catalog source. The embedded catalog works
// with no database rows; the postgres catalog reads role_definitions.
func buildCatalog(cfg *config.Config, pool *pgxpool.Pool) (rolecatalog.Catalog, error) {
	switch cfg.RoleCatalogSource {
	case "postgres":
		return rolecatalog.NewPostgresCatalog(pool), nil
	default:
		return rolecatalog.NewStaticCatalog()
	}
}
