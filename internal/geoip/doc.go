// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package geoip resolves an IP address to the most complete LocationRecord
// available from a set of independent, unreliable geolocation services.
//
// # Providers
//
// Each Provider performs one remote (or local database) lookup:
//
//   - IPAPIProvider: ip-api.com, free, 45 requests/minute enforced client side
//   - IPAPICoProvider: ipapi.co, free, no key
//   - IPInfoProvider: ipinfo.io, optional token
//   - MaxMindProvider: GeoLite2 web service, needs account ID and licence key
//   - MMDBProvider: local GeoLite2-City .mmdb file
//
// Providers without credentials report IsAvailable() == false and are never
// called. NewBreaker wraps a provider in a gobreaker circuit breaker; an open
// breaker is one more "no result".
//
// # Aggregation
//
// Aggregator.Locate queries every available provider concurrently, each call
// bounded by its own timeout, waits for all of them, scores each result with
// Score and keeps the highest. Ties go to the provider registered first. When
// nothing answers, the canonical Unknown record with source "none" is
// returned. Loopback and private addresses never reach a provider.
//
// Lookup failures are logged at warn level and counted; they are never
// returned to the caller.
package geoip
