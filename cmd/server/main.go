// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Command server runs the Tenderlens API: filtered procurement record
// retrieval, market analytics, and CSV import/export over HTTP.
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

	"github.com/tenderlens/tenderlens/internal/api"
	"github.com/tenderlens/tenderlens/internal/cache"
	"github.com/tenderlens/tenderlens/internal/config"
	"github.com/tenderlens/tenderlens/internal/database"
	"github.com/tenderlens/tenderlens/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("driver", cfg.Database.Driver).
		Str("db_path", cfg.Database.Path).
		Bool("persistent_cache", cfg.Cache.Persistent).
		Msg("Starting Tenderlens")

	db, err := database.New(&cfg.Database,
		database.WithQueryTimeout(cfg.Server.Timeout),
		database.WithRetryPolicy(cfg.Fetch.RetryAttempts, cfg.Fetch.RetryDelay),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize analytics store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing analytics store")
		}
	}()

	store, err := newCacheStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize result cache")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result cache")
		}
	}()

	handler := api.NewHandler(db, store, cfg)
	router := api.NewRouter(handler, &api.ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  cfg.Server.RateLimit,
		RateLimitWindow:    time.Minute,
		RateLimitDisabled:  cfg.Server.RateLimit <= 0,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newCacheStore selects the result cache tier: persistent Badger when
// configured, in-memory TTL map otherwise.
func newCacheStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Persistent {
		if err := os.MkdirAll(cfg.Cache.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		return cache.NewBadger(cfg.Cache.Dir, cfg.Cache.TTL)
	}
	return cache.NewMemory(cfg.Cache.TTL), nil
}
