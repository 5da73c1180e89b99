package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/prepline/prepline/internal/config"
	"github.com/prepline/prepline/internal/dispatch"
	"github.com/prepline/prepline/internal/logging"
	"github.com/prepline/prepline/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_payload_bytes", cfg.Limits.MaxPayloadBytes,
		"rate_limit_enabled", cfg.Limits.RateEnabled,
		"numeric_share", cfg.Pipeline.NumericShare,
	)

	dispatcher := dispatch.New(dispatch.Defaults{
		NumericShare: cfg.Pipeline.NumericShare,
		SampleSeed:   cfg.Pipeline.SampleSeed,
		PreviewRows:  cfg.Pipeline.PreviewRows,
	}, slog.Default())

	server := web.NewServer(dispatcher, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
