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
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/vantage/internal/models"
)

// ipAPIFields limits the response to what we map.
const ipAPIFields = "status,message,country,countryCode,regionName,city,zip,lat,lon,timezone,isp,org,query"

// IPAPIProvider queries the free ip-api.com endpoint. The free tier allows
// 45 requests per minute over plain HTTP; exceeding it gets the caller's
// address banned for a while, so the limit is enforced before sending.
type IPAPIProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	Query       string  `json:"query"`
}

// NewIPAPIProvider creates an ip-api.com provider limited to
// requestsPerMinute (45 when non-positive).
func NewIPAPIProvider(requestsPerMinute int, opts ...ProviderOption) *IPAPIProvider {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 45
	}
	cfg := applyProviderOptions("http://ip-api.com/json", opts)
	return &IPAPIProvider{
		client:  cfg.client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
		baseURL: cfg.baseURL,
	}
}

// Name returns the provider name.
func (p *IPAPIProvider) Name() string { return "ip-api.com" }

// IsAvailable returns true; ip-api.com needs no key.
func (p *IPAPIProvider) IsAvailable() bool { return true }

// Lookup queries ip-api.com.
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (models.LocationRecord, error) {
	if net.ParseIP(ip) == nil {
		return models.LocationRecord{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}
	if !p.limiter.Allow() {
		return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ErrRateLimited)
	}

	var resp ipAPIResponse
	url := fmt.Sprintf("%s/%s?fields=%s", p.baseURL, ip, ipAPIFields)
	if err := getJSON(ctx, p.client, p.Name(), url, &resp); err != nil {
		return models.LocationRecord{}, err
	}

	// ip-api reports reserved ranges and unknown addresses as status "fail"
	if resp.Status != "success" {
		return models.LocationRecord{}, fmt.Errorf("%s: %w: %s", p.Name(), ErrNoResult, resp.Message)
	}
	return convertIPAPIResponse(&resp, p.Name()), nil
}

func convertIPAPIResponse(resp *ipAPIResponse, provider string) models.LocationRecord {
	r := newRecord(provider)
	setPlace(&r, resp.Country, resp.RegionName, resp.City)
	setCoordinates(&r, resp.Lat, resp.Lon)
	r.Timezone = models.StringPtr(resp.Timezone)
	r.ISP = models.StringPtr(resp.ISP)
	r.Organization = models.StringPtr(resp.Org)
	r.PostalCode = models.StringPtr(resp.Zip)
	return r
}
