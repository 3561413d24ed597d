package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bathroomcodes/bathroomcodes_api/config"
	deps "github.com/bathroomcodes/bathroomcodes_api/internal/deps"
	api "github.com/bathroomcodes/bathroomcodes_api/internal/http/rest"
	"github.com/bathroomcodes/bathroomcodes_api/internal/storage"
)

const migrateTimeout = 10 * time.Second

func main() {
	cfg := config.New()
	logger := newLogger(cfg.LogLevel)

	d, err := deps.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	if err := storage.Migrate(ctx, d.DB.Pool()); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}
	cancel()

	a := &api.API{
		Config:    cfg,
		Store:     d.Store,
		Locations: d.Locations,
		Search:    d.Search,
		Log:       logger,
	}

	go func() {
		logger.Info().Int("port", cfg.Port).Msg("server running")
		if serveErr := a.Serve(); serveErr != nil {
			logger.Error().Err(serveErr).Msg("server stopped")
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	logger.Info().Msg("shutting down server")
	if err := a.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}

	d.DB.Close()
	logger.Info().Msg("database connections closed")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
