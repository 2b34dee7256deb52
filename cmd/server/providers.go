// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/vantage/internal/config"
	"github.com/tomtom215/vantage/internal/geoip"
	"github.com/tomtom215/vantage/internal/logging"
)

// buildProviders creates the configured providers in registration order.
// Remote providers are wrapped in circuit breakers; the offline database is
// not. The returned closers must be closed on shutdown.
func buildProviders(cfg *config.GeoIPConfig) ([]geoip.Provider, []io.Closer, error) {
	settings := geoip.BreakerSettings{
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     cfg.Breaker.Interval,
		Timeout:      cfg.Breaker.Timeout,
		MinRequests:  cfg.Breaker.MinRequests,
		FailureRatio: cfg.Breaker.FailureRatio,
	}

	var (
		providers []geoip.Provider
		closers   []io.Closer
	)
	remote := func(p geoip.Provider) {
		providers = append(providers, geoip.NewBreaker(p, settings))
		logging.Info().Str("provider", p.Name()).Msg("GeoIP provider enabled")
	}

	if cfg.IPAPI.Enabled {
		remote(geoip.NewIPAPIProvider(cfg.IPAPI.RequestsPerMinute, urlOption(cfg.IPAPI.URL)...))
	}
	if cfg.IPAPICo.Enabled {
		remote(geoip.NewIPAPICoProvider(urlOption(cfg.IPAPICo.URL)...))
	}
	if cfg.IPInfo.Enabled {
		remote(geoip.NewIPInfoProvider(cfg.IPInfo.Token, urlOption(cfg.IPInfo.URL)...))
	}
	if cfg.MaxMind.Configured() {
		remote(geoip.NewMaxMindProvider(cfg.MaxMind.AccountID, cfg.MaxMind.LicenseKey, urlOption(cfg.MaxMind.URL)...))
	}
	if cfg.MMDBPath != "" {
		db, err := geoip.OpenMMDBProvider(cfg.MMDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open offline database: %w", err)
		}
		providers = append(providers, db)
		closers = append(closers, db)
		logging.Info().Str("provider", db.Name()).Str("path", cfg.MMDBPath).Msg("GeoIP provider enabled")
	}

	if len(providers) == 0 {
		return nil, nil, errors.New("no GeoIP provider enabled")
	}
	return providers, closers, nil
}

func urlOption(url string) []geoip.ProviderOption {
	if url == "" {
		return nil
	}
	return []geoip.ProviderOption{geoip.WithBaseURL(url)}
}
