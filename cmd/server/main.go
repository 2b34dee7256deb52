// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/vantage/internal/api"
	"github.com/tomtom215/vantage/internal/config"
	"github.com/tomtom215/vantage/internal/geoip"
	"github.com/tomtom215/vantage/internal/logging"
	"github.com/tomtom215/vantage/internal/metrics"
	"github.com/tomtom215/vantage/internal/pipeline"
	"github.com/tomtom215/vantage/internal/recorder"
	"github.com/tomtom215/vantage/internal/store"
	"github.com/tomtom215/vantage/internal/supervisor"
	"github.com/tomtom215/vantage/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
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

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Vantage stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Vantage with supervisor tree")
	metrics.SetAppInfo(version)

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}

	providers, closers, err := buildProviders(&cfg.GeoIP)
	if err != nil {
		return err
	}
	defer closeAll(closers)

	aggregator := geoip.NewAggregator(providers,
		geoip.WithTimeout(cfg.GeoIP.LookupTimeout),
		geoip.WithCache(cfg.GeoIP.CacheSize, cfg.GeoIP.CacheTTL),
	)

	sessions, err := store.Open(store.Config{
		Path:         cfg.Store.Path,
		InMemory:     cfg.Store.InMemory,
		TTL:          cfg.Store.TTL,
		HistoryLimit: cfg.Store.HistoryLimit,
		GCInterval:   cfg.Store.GCInterval,
	})
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	rec := recorder.New(recorder.Config{Topic: recorder.DefaultTopic, Buffer: cfg.Store.RecorderBuffer})
	defer func() {
		if err := rec.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recorder")
		}
	}()

	estimator := pipeline.New(aggregator,
		pipeline.WithSessions(sessions),
		pipeline.WithRecorder(rec),
	)

	handler := api.NewHandler(estimator,
		api.WithSessions(sessions),
		api.WithVersion(version),
		api.WithHealthCheck("store", sessions.Ping),
		api.WithHealthCheck("geoip", providersAvailable(aggregator)),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, api.RouterConfigFromSecurity(cfg.Security)),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Data layer
	tree.AddDataService(services.NewRecorderService(func(ctx context.Context) error {
		return rec.Run(ctx, sessions)
	}))
	if !cfg.Store.InMemory && cfg.Store.GCInterval > 0 {
		tree.AddDataService(services.NewStoreGCService(sessions, cfg.Store.GCInterval))
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("supervisor: %w", serveErr)
	}
	return nil
}

// providersAvailable fails readiness when no provider can currently answer.
func providersAvailable(agg *geoip.Aggregator) api.HealthCheck {
	return func(context.Context) error {
		for _, p := range agg.Providers() {
			if p.IsAvailable() {
				return nil
			}
		}
		return errors.New("no GeoIP provider available")
	}
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing provider")
		}
	}
}
