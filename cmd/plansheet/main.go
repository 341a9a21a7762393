package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/plansheet/plansheet/internal/config"
	"github.com/plansheet/plansheet/internal/server"
	"github.com/plansheet/plansheet/internal/store"
	"github.com/plansheet/plansheet/internal/telemetry"
	"github.com/plansheet/plansheet/internal/workbook"
	"github.com/plansheet/plansheet/migrations"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	level := slog.LevelInfo
	if os.Getenv("PLANSHEET_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.Info("plansheet starting",
		"version", version, "port", cfg.Port, "store", cfg.StoreBackend)

	// Initialize OpenTelemetry.
	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// Create the artifact store.
	artifacts, err := newArtifactStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer func() { _ = artifacts.Close(context.Background()) }()

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	srv := server.New(server.ServerConfig{
		Assembler:           workbook.NewAssembler(workbook.XLSXEncoder{}),
		Artifacts:           artifacts,
		Logger:              logger,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		BaseURL:             baseURL,
		ArtifactTTL:         cfg.ArtifactTTL,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		Version:             version,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newArtifactStore builds the configured store backend. Both backends honor
// the same retention policy flag so a deployment never mixes policies.
func newArtifactStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, error) {
	opts := store.Options{
		SingleUse:     cfg.SingleUse,
		SweepInterval: cfg.SweepInterval,
	}

	switch cfg.StoreBackend {
	case config.StorePostgres:
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL, opts, logger)
		if err != nil {
			return nil, err
		}
		if err := pg.RunMigrations(ctx, migrations.FS); err != nil {
			_ = pg.Close(ctx)
			return nil, err
		}
		return pg, nil
	default:
		return store.NewMemory(opts), nil
	}
}
