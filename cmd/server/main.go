// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/moodcart/internal/api"
	"github.com/tomtom215/moodcart/internal/config"
	"github.com/tomtom215/moodcart/internal/database"
	"github.com/tomtom215/moodcart/internal/logging"
	"github.com/tomtom215/moodcart/internal/supervisor"
	"github.com/tomtom215/moodcart/internal/supervisor/services"
)

const artifactLoadTimeout = 5 * time.Minute

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logger := logging.Logger()
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("data_dir", cfg.Artifacts.Dir).
		Msg("Starting Moodcart with supervisor tree")

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), artifactLoadTimeout)
	comps, err := buildComponents(loadCtx, cfg, db, logger)
	cancelLoad()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load recommendation data")
		return
	}
	defer comps.close(&logger)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	handler := api.NewHandler(comps.engine, comps.history,
		api.ReadinessCheck{Name: "database", Check: db.Ping},
		api.ReadinessCheck{Name: "collaborative", Check: comps.collaborativeReady},
	)
	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if gc, ok := comps.cache.(services.GarbageCollector); ok {
		tree.Add(supervisor.LayerData, services.NewCacheGCService(gc, services.DefaultGCInterval))
		logging.Info().Str("backend", cfg.Cache.Backend).Msg("Cache GC service added")
	}
	if comps.publisher != nil {
		tree.Add(supervisor.LayerMessaging, comps.publisher)
		logging.Info().Msg("Event publisher added to supervisor tree")
	}
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	// === START SUPERVISOR TREE ===

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)

	// The channel receives exactly one result and is never closed.
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
		stop()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Moodcart stopped gracefully")
}
