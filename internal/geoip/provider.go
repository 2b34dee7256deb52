// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/vantage/internal/models"
)

// Provider is one geolocation source.
type Provider interface {
	// Lookup returns the provider's record for a public IP literal. It returns
	// ErrNoResult when the provider has no data and another error when the
	// call itself failed. Implementations must honour ctx cancellation.
	Lookup(ctx context.Context, ip string) (models.LocationRecord, error)

	// Name identifies the provider in logs, metrics and LocationRecord.Source.
	Name() string

	// IsAvailable reports whether the provider is configured well enough to be called.
	IsAvailable() bool
}

// ProviderOption customizes a remote provider.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	baseURL string
	client  *http.Client
}

// WithBaseURL points a provider at another endpoint (a paid tier, a proxy
// or a test server). Empty values are ignored.
func WithBaseURL(url string) ProviderOption {
	return func(c *providerConfig) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient replaces the provider's HTTP client.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(c *providerConfig) {
		if client != nil {
			c.client = client
		}
	}
}

func applyProviderOptions(defaultURL string, opts []ProviderOption) providerConfig {
	cfg := providerConfig{baseURL: defaultURL, client: newHTTPClient()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// newRecord starts a record for provider with all descriptive fields Unknown.
func newRecord(provider string) models.LocationRecord {
	r := models.UnknownRecord()
	r.Source = provider
	return r
}

// setPlace fills the descriptive fields that are known.
func setPlace(r *models.LocationRecord, country, region, city string) {
	if models.IsKnown(country) {
		r.Country = country
	}
	if models.IsKnown(region) {
		r.Region = region
	}
	if models.IsKnown(city) {
		r.City = city
	}
}

// setCoordinates sets both coordinates when they are in range. Providers that
// encode "no coordinates" as 0,0 are treated as absent.
func setCoordinates(r *models.LocationRecord, lat, lon float64) {
	if lat == 0 && lon == 0 {
		return
	}
	if !models.ValidLatitude(lat) || !models.ValidLongitude(lon) {
		return
	}
	*r = r.WithCoordinates(lat, lon)
}

// isEmpty reports whether the record carries nothing a provider could add.
func isEmpty(r *models.LocationRecord) bool {
	return !r.HasCountry() && !r.HasRegion() && !r.HasCity() && !r.HasCoordinates()
}
