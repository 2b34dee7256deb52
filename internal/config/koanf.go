// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vantage/config.yaml",
	"/etc/vantage/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		GeoIP: GeoIPConfig{
			LookupTimeout: 3 * time.Second,
			IPAPI: IPAPIConfig{
				Enabled:           true,
				RequestsPerMinute: 45, // ip-api.com free tier limit
			},
			IPAPICo: IPAPICoConfig{Enabled: true},
			IPInfo:  IPInfoConfig{Enabled: false},

			CacheSize: 10000,
			CacheTTL:  time.Hour,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Store: StoreConfig{
			Path:           "/data/sessions",
			InMemory:       false,
			TTL:            24 * time.Hour,
			HistoryLimit:   50,
			GCInterval:     10 * time.Minute,
			RecorderBuffer: 256,
		},
		Security: SecurityConfig{
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// GEOIP_MMDB_PATH -> geoip.mmdb_path, and so on; see envMappings.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// GeoIP
	"geoip_lookup_timeout":  "geoip.lookup_timeout",
	"geoip_ipapi_enabled":   "geoip.ipapi.enabled",
	"geoip_ipapi_rpm":       "geoip.ipapi.requests_per_minute",
	"geoip_ipapi_url":       "geoip.ipapi.url",
	"geoip_ipapico_enabled": "geoip.ipapico.enabled",
	"geoip_ipapico_url":     "geoip.ipapico.url",
	"geoip_ipinfo_enabled":  "geoip.ipinfo.enabled",
	"ipinfo_token":          "geoip.ipinfo.token",
	"geoip_ipinfo_url":      "geoip.ipinfo.url",
	"maxmind_account_id":    "geoip.maxmind.account_id",
	"maxmind_license_key":   "geoip.maxmind.license_key",
	"geoip_maxmind_url":     "geoip.maxmind.url",
	"geoip_mmdb_path":       "geoip.mmdb_path",
	"geoip_cache_size":      "geoip.cache_size",
	"geoip_cache_ttl":       "geoip.cache_ttl",

	// Circuit breaker
	"geoip_breaker_max_requests":  "geoip.breaker.max_requests",
	"geoip_breaker_interval":      "geoip.breaker.interval",
	"geoip_breaker_timeout":       "geoip.breaker.timeout",
	"geoip_breaker_min_requests":  "geoip.breaker.min_requests",
	"geoip_breaker_failure_ratio": "geoip.breaker.failure_ratio",

	// Session store
	"store_path":          "store.path",
	"store_in_memory":     "store.in_memory",
	"store_ttl":           "store.ttl",
	"store_history_limit": "store.history_limit",
	"store_gc_interval":   "store.gc_interval",
	"recorder_buffer":     "store.recorder_buffer",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trust_forwarded_ip":  "security.trust_forwarded_ip",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return "" so random environment variables are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
