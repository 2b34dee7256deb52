// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	GeoIP    GeoIPConfig    `koanf:"geoip"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development" or "production"
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// GeoIPConfig configures the provider set and the aggregator around it.
//
// ip-api.com and ipapi.co need no credentials and are enabled by default.
// ipinfo.io works without a token at a lower quota. MaxMind is only used when
// both the account ID and licence key are set, and the offline database only
// when MMDBPath points at a readable file.
type GeoIPConfig struct {
	// LookupTimeout bounds each provider call. Clamped to 3s.
	LookupTimeout time.Duration `koanf:"lookup_timeout"`

	IPAPI   IPAPIConfig   `koanf:"ipapi"`
	IPAPICo IPAPICoConfig `koanf:"ipapico"`
	IPInfo  IPInfoConfig  `koanf:"ipinfo"`
	MaxMind MaxMindConfig `koanf:"maxmind"`

	// MMDBPath is an optional GeoLite2/GeoIP2 City database file.
	MMDBPath string `koanf:"mmdb_path"`

	// CacheSize of zero disables the lookup cache.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// IPAPIConfig configures ip-api.com.
type IPAPIConfig struct {
	Enabled           bool   `koanf:"enabled"`
	RequestsPerMinute int    `koanf:"requests_per_minute"`
	URL               string `koanf:"url"`
}

// IPAPICoConfig configures ipapi.co.
type IPAPICoConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
}

// IPInfoConfig configures ipinfo.io.
type IPInfoConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
	URL     string `koanf:"url"`
}

// MaxMindConfig configures the GeoLite2 web service.
// Register free at: https://www.maxmind.com/en/geolite2/signup
type MaxMindConfig struct {
	AccountID  string `koanf:"account_id"`
	LicenseKey string `koanf:"license_key"`
	URL        string `koanf:"url"`
}

// Configured reports whether both credentials are present.
func (m MaxMindConfig) Configured() bool {
	return m.AccountID != "" && m.LicenseKey != ""
}

// BreakerConfig tunes the per-provider circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// StoreConfig configures session persistence.
type StoreConfig struct {
	Path         string        `koanf:"path"`
	InMemory     bool          `koanf:"in_memory"`
	TTL          time.Duration `koanf:"ttl"`
	HistoryLimit int           `koanf:"history_limit"`
	GCInterval   time.Duration `koanf:"gc_interval"`

	// RecorderBuffer is the in-process queue depth between the pipeline and
	// the store writer.
	RecorderBuffer int64 `koanf:"recorder_buffer"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// TrustForwardedIP makes the API take the client address from
	// X-Forwarded-For / X-Real-IP. Only enable behind a trusted proxy.
	TrustForwardedIP bool `koanf:"trust_forwarded_ip"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
