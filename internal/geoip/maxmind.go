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

	"github.com/goccy/go-json"

	"github.com/tomtom215/vantage/internal/models"
)

// MaxMindProvider queries the MaxMind GeoLite2 City web service.
// Requires a free account: https://www.maxmind.com/en/geolite2/signup
// The free tier allows 1,000 lookups per day.
type MaxMindProvider struct {
	client     *http.Client
	accountID  string
	licenseKey string
	baseURL    string
}

// geoIP2City is the shared shape of the GeoIP2 City web service response
// and the GeoLite2-City database record.
type geoIP2City struct {
	City struct {
		Names map[string]string `json:"names" maxminddb:"names"`
	} `json:"city" maxminddb:"city"`
	Country struct {
		ISOCode string            `json:"iso_code" maxminddb:"iso_code"`
		Names   map[string]string `json:"names" maxminddb:"names"`
	} `json:"country" maxminddb:"country"`
	Location struct {
		AccuracyRadius uint16  `json:"accuracy_radius" maxminddb:"accuracy_radius"`
		Latitude       float64 `json:"latitude" maxminddb:"latitude"`
		Longitude      float64 `json:"longitude" maxminddb:"longitude"`
		TimeZone       string  `json:"time_zone" maxminddb:"time_zone"`
	} `json:"location" maxminddb:"location"`
	Postal struct {
		Code string `json:"code" maxminddb:"code"`
	} `json:"postal" maxminddb:"postal"`
	Subdivisions []struct {
		ISOCode string            `json:"iso_code" maxminddb:"iso_code"`
		Names   map[string]string `json:"names" maxminddb:"names"`
	} `json:"subdivisions" maxminddb:"subdivisions"`
	Traits struct {
		ISP                          string `json:"isp" maxminddb:"isp"`
		Organization                 string `json:"organization" maxminddb:"organization"`
		AutonomousSystemOrganization string `json:"autonomous_system_organization" maxminddb:"autonomous_system_organization"`
	} `json:"traits" maxminddb:"traits"`
}

type maxMindErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// NewMaxMindProvider creates a GeoLite2 web service provider.
func NewMaxMindProvider(accountID, licenseKey string, opts ...ProviderOption) *MaxMindProvider {
	cfg := applyProviderOptions("https://geolite.info/geoip/v2.1/city", opts)
	return &MaxMindProvider{
		client:     cfg.client,
		accountID:  accountID,
		licenseKey: licenseKey,
		baseURL:    cfg.baseURL,
	}
}

// Name returns the provider name.
func (p *MaxMindProvider) Name() string { return "maxmind-geolite2" }

// IsAvailable returns true when account ID and licence key are set.
func (p *MaxMindProvider) IsAvailable() bool {
	return p.accountID != "" && p.licenseKey != ""
}

// Lookup queries the GeoLite2 web service.
func (p *MaxMindProvider) Lookup(ctx context.Context, ip string) (models.LocationRecord, error) {
	if !p.IsAvailable() {
		return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ErrNotConfigured)
	}
	if net.ParseIP(ip) == nil {
		return models.LocationRecord{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	var resp geoIP2City
	err := getJSON(ctx, p.client, p.Name(), fmt.Sprintf("%s/%s", p.baseURL, ip), &resp,
		withBasicAuth(p.accountID, p.licenseKey), withErrorDecoder(decodeMaxMindError))
	if err != nil {
		return models.LocationRecord{}, err
	}

	r := convertGeoIP2City(&resp, p.Name())
	if isEmpty(&r) {
		return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ErrNoResult)
	}
	return r, nil
}

// decodeMaxMindError maps MaxMind's {"code","error"} body to our errors.
// Reserved and unknown addresses are "no result", not provider failures.
func decodeMaxMindError(_ int, body []byte) error {
	var e maxMindErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Code == "" {
		return nil
	}
	switch e.Code {
	case "IP_ADDRESS_RESERVED", "IP_ADDRESS_NOT_FOUND":
		return fmt.Errorf("maxmind: %w: %s", ErrNoResult, e.Code)
	case "OUT_OF_QUERIES":
		return fmt.Errorf("maxmind: %w", ErrRateLimited)
	default:
		return fmt.Errorf("maxmind error (%s): %s", e.Code, e.Error)
	}
}

func convertGeoIP2City(rec *geoIP2City, provider string) models.LocationRecord {
	r := newRecord(provider)

	region := ""
	if len(rec.Subdivisions) > 0 {
		region = rec.Subdivisions[0].Names["en"]
	}
	setPlace(&r, rec.Country.Names["en"], region, rec.City.Names["en"])
	setCoordinates(&r, rec.Location.Latitude, rec.Location.Longitude)

	r.Timezone = models.StringPtr(rec.Location.TimeZone)
	r.PostalCode = models.StringPtr(rec.Postal.Code)
	r.ISP = models.StringPtr(rec.Traits.ISP)
	org := rec.Traits.Organization
	if org == "" {
		org = rec.Traits.AutonomousSystemOrganization
	}
	r.Organization = models.StringPtr(org)
	return r
}
