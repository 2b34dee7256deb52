// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package models

import "errors"

var (
	// ErrInvalidCoordinate is returned when a latitude or longitude is outside
	// its valid range. Callers are expected to reject the input, not clamp it.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrHalfCoordinate is returned when only one of latitude/longitude is set.
	ErrHalfCoordinate = errors.New("latitude and longitude must be set together")

	// ErrSessionNotFound is returned when a tracking session has no stored result.
	ErrSessionNotFound = errors.New("session not found")
)
