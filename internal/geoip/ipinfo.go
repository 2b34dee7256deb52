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
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/vantage/internal/models"
)

// IPInfoProvider queries ipinfo.io. A token raises the quota but is not
// required for the free tier.
type IPInfoProvider struct {
	client  *http.Client
	token   string
	baseURL string
}

type ipInfoResponse struct {
	IP       string `json:"ip"`
	Bogon    bool   `json:"bogon"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"` // "lat,lon"
	Org      string `json:"org"` // "AS15169 Google LLC"
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

// NewIPInfoProvider creates an ipinfo.io provider. token may be empty.
func NewIPInfoProvider(token string, opts ...ProviderOption) *IPInfoProvider {
	cfg := applyProviderOptions("https://ipinfo.io", opts)
	return &IPInfoProvider{client: cfg.client, token: token, baseURL: cfg.baseURL}
}

// Name returns the provider name.
func (p *IPInfoProvider) Name() string { return "ipinfo.io" }

// IsAvailable returns true; the token is optional.
func (p *IPInfoProvider) IsAvailable() bool { return true }

// Lookup queries ipinfo.io.
func (p *IPInfoProvider) Lookup(ctx context.Context, ip string) (models.LocationRecord, error) {
	if net.ParseIP(ip) == nil {
		return models.LocationRecord{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	endpoint := fmt.Sprintf("%s/%s/json", p.baseURL, ip)
	if p.token != "" {
		endpoint += "?token=" + url.QueryEscape(p.token)
	}

	var resp ipInfoResponse
	if err := getJSON(ctx, p.client, p.Name(), endpoint, &resp); err != nil {
		return models.LocationRecord{}, err
	}
	if resp.Bogon {
		return models.LocationRecord{}, fmt.Errorf("%s: %w: bogon address", p.Name(), ErrNoResult)
	}

	return convertIPInfoResponse(&resp, p.Name()), nil
}

func convertIPInfoResponse(resp *ipInfoResponse, provider string) models.LocationRecord {
	r := newRecord(provider)
	setPlace(&r, resp.Country, resp.Region, resp.City)
	if lat, lon, ok := parseLoc(resp.Loc); ok {
		setCoordinates(&r, lat, lon)
	}
	r.Timezone = models.StringPtr(resp.Timezone)
	r.Organization = models.StringPtr(stripASN(resp.Org))
	r.PostalCode = models.StringPtr(resp.Postal)
	return r
}

// parseLoc splits ipinfo's "lat,lon" field.
func parseLoc(loc string) (lat, lon float64, ok bool) {
	latStr, lonStr, found := strings.Cut(loc, ",")
	if !found {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// stripASN turns "AS15169 Google LLC" into "Google LLC".
func stripASN(org string) string {
	org = strings.TrimSpace(org)
	if len(org) > 2 && strings.EqualFold(org[:2], "AS") {
		if _, rest, ok := strings.Cut(org, " "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return org
}
