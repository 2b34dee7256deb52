// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package models

// AccuracyBand is the qualitative precision class attached to a SignalEstimate.
type AccuracyBand string

const (
	AccuracyCityRegion    AccuracyBand = "city_region"
	AccuracyRegional      AccuracyBand = "regional"
	AccuracyBroadRegional AccuracyBand = "broad_regional"
	AccuracyVeryBroad     AccuracyBand = "very_broad"
)

// Algorithm names reported on each SignalEstimate.
const (
	AlgorithmIPGeolocation    = "ip_geolocation"
	AlgorithmNetwork          = "network_infrastructure"
	AlgorithmTimezoneLanguage = "timezone_language"
	AlgorithmConnection       = "connection_quality"
	AlgorithmDevice           = "device_characteristics"
)

// SignalEstimate is a partial location hint produced by one signal estimator.
// Confidence is capped per algorithm and is never normalized before blending.
type SignalEstimate struct {
	Algorithm    string         `json:"algorithm"`
	Location     LocationRecord `json:"location"`
	Confidence   int            `json:"confidence"`
	AccuracyBand AccuracyBand   `json:"accuracy_band"`

	// Description is free-form context (for example "high-speed infrastructure region").
	Description string `json:"description,omitempty"`
}

// HasCoordinates reports whether the estimate carries a full coordinate pair.
func (e *SignalEstimate) HasCoordinates() bool {
	return e.Location.HasCoordinates()
}

// HasDescriptiveFields reports whether the estimate names any place or region.
func (e *SignalEstimate) HasDescriptiveFields() bool {
	return e.Location.HasCountry() || e.Location.HasRegion() || e.Location.HasCity()
}

// StealthEstimate is the blended, permission-free location guess.
type StealthEstimate struct {
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Confidence int      `json:"confidence"`
	Accuracy   string   `json:"accuracy"`
	Source     string   `json:"source"`

	// Region names the area when no coordinate could be produced.
	Region string `json:"region,omitempty"`
}

// HasCoordinates reports whether a blended coordinate was produced.
func (s *StealthEstimate) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// ClampConfidence bounds v to [0, limit].
func ClampConfidence(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
