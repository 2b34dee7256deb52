// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

/*
Package config provides centralized configuration management for Vantage.

Configuration is layered with Koanf v2:
 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml / config.yml in the
    working directory, then /etc/vantage/
 3. Explicitly mapped environment variables

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT: bind address (default 0.0.0.0:8080)
  - HTTP_TIMEOUT: read/write timeout (default 10s)
  - SHUTDOWN_TIMEOUT: graceful shutdown timeout (default 15s)
  - ENVIRONMENT: development or production

GeoIP providers:
  - GEOIP_LOOKUP_TIMEOUT: per-provider timeout, at most 3s
  - GEOIP_IPAPI_ENABLED, GEOIP_IPAPI_RPM, GEOIP_IPAPI_URL
  - GEOIP_IPAPICO_ENABLED, GEOIP_IPAPICO_URL
  - IPINFO_TOKEN, GEOIP_IPINFO_ENABLED, GEOIP_IPINFO_URL
  - MAXMIND_ACCOUNT_ID, MAXMIND_LICENSE_KEY, GEOIP_MAXMIND_URL
  - GEOIP_MMDB_PATH: local GeoLite2/GeoIP2 City database
  - GEOIP_CACHE_SIZE, GEOIP_CACHE_TTL
  - GEOIP_BREAKER_*: circuit breaker tuning

Session store:
  - STORE_PATH, STORE_IN_MEMORY, STORE_TTL, STORE_HISTORY_LIMIT, STORE_GC_INTERVAL
  - RECORDER_BUFFER

Security:
  - CORS_ORIGINS: comma-separated origins (default *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - TRUST_FORWARDED_IP: honour X-Forwarded-For / X-Real-IP for the client address

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

Config is immutable after Load and safe for concurrent reads.
*/
package config
