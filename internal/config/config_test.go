// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	mmdb := filepath.Join(t.TempDir(), "GeoLite2-City.mmdb")
	if err := os.WriteFile(mmdb, []byte("stub"), 0o600); err != nil {
		t.Fatalf("write mmdb: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"lookup timeout above 3s", func(c *Config) { c.GeoIP.LookupTimeout = 5 * time.Second }, "GEOIP_LOOKUP_TIMEOUT"},
		{"lookup timeout zero", func(c *Config) { c.GeoIP.LookupTimeout = 0 }, "GEOIP_LOOKUP_TIMEOUT"},
		{"ip-api without rate", func(c *Config) { c.GeoIP.IPAPI.RequestsPerMinute = 0 }, "GEOIP_IPAPI_RPM"},
		{"ip-api disabled ignores rate", func(c *Config) {
			c.GeoIP.IPAPI.Enabled = false
			c.GeoIP.IPAPI.RequestsPerMinute = 0
		}, ""},
		{"bad provider URL scheme", func(c *Config) { c.GeoIP.IPAPI.URL = "ftp://ip-api.com/json" }, "GEOIP_IPAPI_URL"},
		{"provider URL with query", func(c *Config) { c.GeoIP.IPInfo.URL = "https://ipinfo.io?x=1" }, "GEOIP_IPINFO_URL"},
		{"provider URL with path", func(c *Config) { c.GeoIP.IPAPICo.URL = "http://127.0.0.1:9000/geo" }, ""},
		{"maxmind half configured", func(c *Config) { c.GeoIP.MaxMind.AccountID = "42" }, "MAXMIND_ACCOUNT_ID"},
		{"maxmind placeholder", func(c *Config) {
			c.GeoIP.MaxMind.AccountID = "42"
			c.GeoIP.MaxMind.LicenseKey = "YOUR_LICENSE_KEY"
		}, "placeholder"},
		{"missing mmdb file", func(c *Config) { c.GeoIP.MMDBPath = "/nonexistent/city.mmdb" }, "GEOIP_MMDB_PATH"},
		{"mmdb only", func(c *Config) {
			c.GeoIP.IPAPI.Enabled = false
			c.GeoIP.IPAPICo.Enabled = false
			c.GeoIP.MMDBPath = mmdb
		}, ""},
		{"no providers", func(c *Config) {
			c.GeoIP.IPAPI.Enabled = false
			c.GeoIP.IPAPICo.Enabled = false
		}, "at least one GeoIP provider"},
		{"negative cache", func(c *Config) { c.GeoIP.CacheSize = -1 }, "GEOIP_CACHE_SIZE"},
		{"cache without ttl", func(c *Config) { c.GeoIP.CacheTTL = 0 }, "GEOIP_CACHE_TTL"},
		{"cache disabled without ttl", func(c *Config) {
			c.GeoIP.CacheSize = 0
			c.GeoIP.CacheTTL = 0
		}, ""},
		{"breaker ratio", func(c *Config) { c.GeoIP.Breaker.FailureRatio = 1.5 }, "FAILURE_RATIO"},
		{"breaker max requests", func(c *Config) { c.GeoIP.Breaker.MaxRequests = 0 }, "MAX_REQUESTS"},
		{"store without path", func(c *Config) { c.Store.Path = "" }, "STORE_PATH"},
		{"in-memory store without path", func(c *Config) {
			c.Store.Path = ""
			c.Store.InMemory = true
		}, ""},
		{"history limit", func(c *Config) { c.Store.HistoryLimit = 0 }, "STORE_HISTORY_LIMIT"},
		{"recorder buffer", func(c *Config) { c.Store.RecorderBuffer = 0 }, "RECORDER_BUFFER"},
		{"empty CORS", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"rate limit too low", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit window too long", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_HelperMethods(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("development should not warn about wildcard CORS")
	}

	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("production with wildcard CORS should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://app.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}

	cfg.Server.Host = "::1"
	if cfg.Server.Addr() != "[::1]:8080" {
		t.Errorf("Addr() with IPv6 host = %q", cfg.Server.Addr())
	}
}

func TestContainsPlaceholder(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"":                   false,
		"a1b2c3d4":           false,
		"changeme":           true,
		"your_token_here":    true,
		"REPLACE_WITH_TOKEN": true,
	}
	for in, want := range tests {
		if got := containsPlaceholder(in); got != want {
			t.Errorf("containsPlaceholder(%q) = %v, want %v", in, got, want)
		}
	}
}
