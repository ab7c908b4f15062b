package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dylangamachefl/foundation-sprint/internal/config"
	"github.com/dylangamachefl/foundation-sprint/internal/llm/providers"
	"github.com/dylangamachefl/foundation-sprint/internal/server"
	"github.com/dylangamachefl/foundation-sprint/internal/sprint"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sprint HTTP service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	loader := config.NewLoader(config.NewValidator())
	cfg, err := loader.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Refuse to start without working provider credentials rather than
	// failing every sprint at analysis time.
	provider, err := providers.NewProvider(ctx, cfg.LLM.Provider, cfg.LLM.Google)
	if err != nil {
		return err
	}

	orchestrator := sprint.NewOrchestrator(
		sprint.NewMemoryStore(),
		provider,
		sprint.WithModel(cfg.LLM.Google.DefaultModel),
	)

	srv := server.New(cfg.Server, orchestrator)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// newLogger builds the process logger from config. Invalid values were
// already rejected by config validation.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
