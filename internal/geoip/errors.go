// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import "errors"

var (
	// ErrNoResult means the provider answered but had no data for the address.
	// It does not count against the provider's circuit breaker.
	ErrNoResult = errors.New("geoip: no result")

	// ErrInvalidIP means the input is not an IP literal.
	ErrInvalidIP = errors.New("geoip: invalid IP address")

	// ErrNotConfigured means the provider is missing credentials or a database.
	ErrNotConfigured = errors.New("geoip: provider not configured")

	// ErrRateLimited means the provider's client-side or server-side quota is exhausted.
	ErrRateLimited = errors.New("geoip: rate limited")

	// ErrMalformedResponse means the provider's payload could not be decoded.
	ErrMalformedResponse = errors.New("geoip: malformed response")
)
