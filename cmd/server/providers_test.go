// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tomtom215/vantage/internal/config"
	"github.com/tomtom215/vantage/internal/geoip"
)

func providerNames(providers []geoip.Provider) []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return names
}

func TestBuildProviders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.GeoIPConfig)
		want    []string
		wantErr bool
	}{
		{
			name: "free providers only",
			mutate: func(c *config.GeoIPConfig) {
				c.IPAPI.Enabled = true
				c.IPAPI.RequestsPerMinute = 45
				c.IPAPICo.Enabled = true
			},
			want: []string{"ip-api.com", "ipapi.co"},
		},
		{
			name: "every remote provider",
			mutate: func(c *config.GeoIPConfig) {
				c.IPAPI.Enabled = true
				c.IPAPI.RequestsPerMinute = 45
				c.IPAPICo.Enabled = true
				c.IPInfo.Enabled = true
				c.MaxMind.AccountID = "12345"
				c.MaxMind.LicenseKey = "key"
			},
			want: []string{"ip-api.com", "ipapi.co", "ipinfo.io", "maxmind-geolite2"},
		},
		{
			name: "half configured maxmind is skipped",
			mutate: func(c *config.GeoIPConfig) {
				c.IPInfo.Enabled = true
				c.MaxMind.AccountID = "12345"
			},
			want: []string{"ipinfo.io"},
		},
		{
			name:    "nothing enabled",
			mutate:  func(c *config.GeoIPConfig) {},
			wantErr: true,
		},
		{
			name: "missing offline database",
			mutate: func(c *config.GeoIPConfig) {
				c.IPAPICo.Enabled = true
				c.MMDBPath = filepath.Join(t.TempDir(), "missing.mmdb")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg config.GeoIPConfig
			tt.mutate(&cfg)

			providers, closers, err := buildProviders(&cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildProviders() error = %v", err)
			}
			if len(closers) != 0 {
				t.Errorf("remote providers should need no closers, got %d", len(closers))
			}

			got := providerNames(providers)
			if len(got) != len(tt.want) {
				t.Fatalf("providers = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("providers[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			for _, p := range providers {
				if _, ok := p.(*geoip.BreakerProvider); !ok {
					t.Errorf("%s is not wrapped in a circuit breaker", p.Name())
				}
			}
		})
	}
}

func TestProvidersAvailable(t *testing.T) {
	t.Parallel()

	var cfg config.GeoIPConfig
	cfg.IPAPICo.Enabled = true
	providers, _, err := buildProviders(&cfg)
	if err != nil {
		t.Fatalf("buildProviders() error = %v", err)
	}

	check := providersAvailable(geoip.NewAggregator(providers))
	if err := check(context.Background()); err != nil {
		t.Errorf("check with an available provider = %v", err)
	}

	empty := providersAvailable(geoip.NewAggregator(nil))
	if err := empty(context.Background()); err == nil {
		t.Error("check without providers should fail")
	}
}

func TestURLOption(t *testing.T) {
	t.Parallel()

	if opts := urlOption(""); opts != nil {
		t.Errorf("urlOption(\"\") = %v, want nil", opts)
	}
	if opts := urlOption("http://127.0.0.1:9999"); len(opts) != 1 {
		t.Errorf("urlOption(url) returned %d options, want 1", len(opts))
	}
}
