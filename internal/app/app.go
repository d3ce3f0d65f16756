package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomlink/roomlink-server/internal/config"
	"github.com/roomlink/roomlink-server/internal/core"
	"github.com/roomlink/roomlink-server/internal/storage"
	transporthttp "github.com/roomlink/roomlink-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	store, err := storage.NewDisk(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	logger.Info().Str("upload_dir", cfg.UploadDir).Int64("max_upload_bytes", cfg.MaxUploadBytes).Msg("storage initialized")

	registry := core.NewRegistry(cfg.HistoryLimit, logger)
	manager := core.NewManager(registry, cfg.SessionBuffer, logger)
	server := transporthttp.NewServer(manager, store, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
