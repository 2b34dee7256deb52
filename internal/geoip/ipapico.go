// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/tomtom215/vantage/internal/models"
)

// IPAPICoProvider queries ipapi.co (free tier, no key, roughly 1,000
// requests/day). Quota exhaustion is reported in the body, not the status.
type IPAPICoProvider struct {
	client  *http.Client
	baseURL string
}

type ipAPICoResponse struct {
	IP          string   `json:"ip"`
	Error       bool     `json:"error"`
	Reason      string   `json:"reason"`
	Reserved    bool     `json:"reserved"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	CountryName string   `json:"country_name"`
	Postal      string   `json:"postal"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Timezone    string   `json:"timezone"`
	Org         string   `json:"org"`
}

// NewIPAPICoProvider creates an ipapi.co provider.
func NewIPAPICoProvider(opts ...ProviderOption) *IPAPICoProvider {
	cfg := applyProviderOptions("https://ipapi.co", opts)
	return &IPAPICoProvider{client: cfg.client, baseURL: cfg.baseURL}
}

// Name returns the provider name.
func (p *IPAPICoProvider) Name() string { return "ipapi.co" }

// IsAvailable returns true; ipapi.co needs no key.
func (p *IPAPICoProvider) IsAvailable() bool { return true }

// Lookup queries ipapi.co.
func (p *IPAPICoProvider) Lookup(ctx context.Context, ip string) (models.LocationRecord, error) {
	if net.ParseIP(ip) == nil {
		return models.LocationRecord{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	var resp ipAPICoResponse
	if err := getJSON(ctx, p.client, p.Name(), fmt.Sprintf("%s/%s/json/", p.baseURL, ip), &resp); err != nil {
		return models.LocationRecord{}, err
	}

	if resp.Error {
		if strings.Contains(strings.ToLower(resp.Reason), "ratelimit") {
			return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ErrRateLimited)
		}
		return models.LocationRecord{}, fmt.Errorf("%s: %w: %s", p.Name(), ErrNoResult, resp.Reason)
	}
	if resp.Reserved {
		return models.LocationRecord{}, fmt.Errorf("%s: %w: reserved address", p.Name(), ErrNoResult)
	}

	return convertIPAPICoResponse(&resp, p.Name()), nil
}

func convertIPAPICoResponse(resp *ipAPICoResponse, provider string) models.LocationRecord {
	r := newRecord(provider)
	setPlace(&r, resp.CountryName, resp.Region, resp.City)
	if resp.Latitude != nil && resp.Longitude != nil {
		setCoordinates(&r, *resp.Latitude, *resp.Longitude)
	}
	r.Timezone = models.StringPtr(resp.Timezone)
	r.Organization = models.StringPtr(resp.Org)
	r.PostalCode = models.StringPtr(resp.Postal)
	return r
}
