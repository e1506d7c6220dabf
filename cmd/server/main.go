// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

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

	"github.com/tomtom215/promoscore/internal/api"
	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/store"
	"github.com/tomtom215/promoscore/internal/supervisor"
	"github.com/tomtom215/promoscore/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().Str("version", version).Msg("Starting Promoscore with supervisor tree")

	db, err := store.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	comps, err := buildComponents(cfg, db)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize components")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})

	if cfg.Settlement.Enabled {
		tree.AddBackgroundService(services.NewSettlementSweepService(comps.settlement, cfg.Settlement.SweepInterval))
		logging.Info().Dur("interval", cfg.Settlement.SweepInterval).Msg("Settlement sweep added to supervisor tree")
	}
	if !cfg.Store.InMemory {
		tree.AddBackgroundService(services.NewStoreGCService(db, 0))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(comps.handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security))),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	logging.Info().Msg("Application stopped gracefully")
}
