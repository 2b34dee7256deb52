// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"

	"github.com/tomtom215/vantage/internal/models"
)

// MMDBProvider answers from a local GeoLite2-City (or GeoIP2-City) database
// file. It needs no network and has no quota.
type MMDBProvider struct {
	reader *maxminddb.Reader
	path   string
}

// OpenMMDBProvider opens the database at path. The caller must Close it.
func OpenMMDBProvider(path string) (*MMDBProvider, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mmdb %s: %w", path, err)
	}
	return &MMDBProvider{reader: reader, path: path}, nil
}

// Name returns the provider name.
func (p *MMDBProvider) Name() string { return "mmdb" }

// IsAvailable reports whether the database is open.
func (p *MMDBProvider) IsAvailable() bool { return p != nil && p.reader != nil }

// Lookup reads the record for ip from the database.
func (p *MMDBProvider) Lookup(ctx context.Context, ip string) (models.LocationRecord, error) {
	if !p.IsAvailable() {
		return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return models.LocationRecord{}, err
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return models.LocationRecord{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	var rec geoIP2City
	_, found, err := p.reader.LookupNetwork(parsed, &rec)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("%s: %w: %v", p.Name(), ErrMalformedResponse, err)
	}
	if !found {
		return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ErrNoResult)
	}

	r := convertGeoIP2City(&rec, p.Name())
	if isEmpty(&r) {
		return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ErrNoResult)
	}
	return r, nil
}

// Close releases the database.
func (p *MMDBProvider) Close() error {
	if p == nil || p.reader == nil {
		return nil
	}
	err := p.reader.Close()
	p.reader = nil
	return err
}
