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
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateGeoIP(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validEnvironments defines the allowed deployment modes
var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// maxLookupTimeout is the upper bound on a single provider call.
const maxLookupTimeout = 3 * time.Second

// validateGeoIP validates provider and aggregator settings
func (c *Config) validateGeoIP() error {
	g := &c.GeoIP

	if g.LookupTimeout <= 0 || g.LookupTimeout > maxLookupTimeout {
		return fmt.Errorf("GEOIP_LOOKUP_TIMEOUT must be positive and at most %v", maxLookupTimeout)
	}

	if g.IPAPI.Enabled && g.IPAPI.RequestsPerMinute < 1 {
		return fmt.Errorf("GEOIP_IPAPI_RPM must be at least 1 when ip-api.com is enabled")
	}

	if err := c.validateProviderURLs(); err != nil {
		return err
	}

	if (g.MaxMind.AccountID == "") != (g.MaxMind.LicenseKey == "") {
		return fmt.Errorf("MAXMIND_ACCOUNT_ID and MAXMIND_LICENSE_KEY must be set together")
	}
	if containsPlaceholder(g.MaxMind.LicenseKey) || containsPlaceholder(g.IPInfo.Token) {
		return fmt.Errorf("GeoIP credentials contain a placeholder value; set real credentials or leave them empty")
	}

	if g.MMDBPath != "" {
		if _, err := os.Stat(g.MMDBPath); err != nil {
			return fmt.Errorf("GEOIP_MMDB_PATH is not readable: %w", err)
		}
	}

	if !c.HasAnyProvider() {
		return fmt.Errorf("at least one GeoIP provider must be enabled")
	}

	if g.CacheSize < 0 {
		return fmt.Errorf("GEOIP_CACHE_SIZE must not be negative")
	}
	if g.CacheSize > 0 && g.CacheTTL <= 0 {
		return fmt.Errorf("GEOIP_CACHE_TTL must be positive when the cache is enabled")
	}

	return c.validateBreaker()
}

// validateProviderURLs validates any base URL overrides
func (c *Config) validateProviderURLs() error {
	urls := map[string]string{
		"GEOIP_IPAPI_URL":   c.GeoIP.IPAPI.URL,
		"GEOIP_IPAPICO_URL": c.GeoIP.IPAPICo.URL,
		"GEOIP_IPINFO_URL":  c.GeoIP.IPInfo.URL,
		"GEOIP_MAXMIND_URL": c.GeoIP.MaxMind.URL,
	}
	for field, raw := range urls {
		if raw == "" {
			continue
		}
		if err := validateEndpointURL(raw, field); err != nil {
			return fmt.Errorf("%s is invalid: %w", field, err)
		}
	}
	return nil
}

// HasAnyProvider reports whether at least one provider will be registered.
func (c *Config) HasAnyProvider() bool {
	g := c.GeoIP
	return g.IPAPI.Enabled || g.IPAPICo.Enabled || g.IPInfo.Enabled ||
		g.MaxMind.Configured() || g.MMDBPath != ""
}

// validateBreaker validates circuit breaker tuning
func (c *Config) validateBreaker() error {
	b := c.GeoIP.Breaker
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("GEOIP_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("GEOIP_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("GEOIP_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateStore validates session store settings
func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("STORE_TTL must not be negative")
	}
	if c.Store.HistoryLimit < 1 {
		return fmt.Errorf("STORE_HISTORY_LIMIT must be at least 1")
	}
	if c.Store.RecorderBuffer < 1 {
		return fmt.Errorf("RECORDER_BUFFER must be at least 1")
	}
	return nil
}

// validateSecurity validates CORS and rate limit settings
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects an empty origin list; use "*" to allow every origin
func (c *Config) validateCORS() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if a production deployment accepts every origin
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns are values that indicate a credential was never filled in.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_",
	"PLACEHOLDER",
}

// containsPlaceholder checks if a value contains common placeholder patterns.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
