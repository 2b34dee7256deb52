// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package models

import (
	"fmt"
	"strings"
)

// Unknown is the explicit marker for a country, region or city that a provider
// reported but could not resolve. It is distinct from an empty (absent) value.
const Unknown = "Unknown"

// Source markers for records that were not produced by a remote provider.
const (
	// SourceNone marks the canonical record returned when every provider failed.
	SourceNone = "none"

	// SourceLocal marks the synthetic record for loopback and private addresses.
	SourceLocal = "local"
)

// LocationRecord is a normalized geolocation result from one provider.
// Optional values are nil when absent.
type LocationRecord struct {
	Country      string   `json:"country"`
	Region       string   `json:"region"`
	City         string   `json:"city"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Timezone     *string  `json:"timezone,omitempty"`
	ISP          *string  `json:"isp,omitempty"`
	Organization *string  `json:"organization,omitempty"`
	PostalCode   *string  `json:"postal_code,omitempty"`
	Source       string   `json:"source"`
}

// UnknownRecord returns the canonical record used when no provider produced a result.
func UnknownRecord() LocationRecord {
	return LocationRecord{
		Country: Unknown,
		Region:  Unknown,
		City:    Unknown,
		Source:  SourceNone,
	}
}

// LocalRecord returns the fixed record for loopback and private-range addresses.
// Coordinates are deliberately left absent.
func LocalRecord() LocationRecord {
	return LocationRecord{
		Country: "Local",
		Region:  "Local Network",
		City:    "Local Network",
		Source:  SourceLocal,
	}
}

// WithCoordinates returns a copy of r with both coordinates set.
func (r LocationRecord) WithCoordinates(lat, lon float64) LocationRecord {
	r.Latitude = &lat
	r.Longitude = &lon
	return r
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r *LocationRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Validate checks the coordinate pairing invariant and, when present, the ranges.
func (r *LocationRecord) Validate() error {
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return ErrHalfCoordinate
	}
	if r.HasCoordinates() {
		if !ValidLatitude(*r.Latitude) || !ValidLongitude(*r.Longitude) {
			return fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinate, *r.Latitude, *r.Longitude)
		}
	}
	return nil
}

// HasCountry reports whether the country is known.
func (r *LocationRecord) HasCountry() bool { return IsKnown(r.Country) }

// HasRegion reports whether the region is known.
func (r *LocationRecord) HasRegion() bool { return IsKnown(r.Region) }

// HasCity reports whether the city is known.
func (r *LocationRecord) HasCity() bool { return IsKnown(r.City) }

// HasTimezone reports whether a timezone is present.
func (r *LocationRecord) HasTimezone() bool { return r.Timezone != nil && *r.Timezone != "" }

// NetworkName returns the ISP name, falling back to the organization.
// Returns empty string when neither is known.
func (r *LocationRecord) NetworkName() string {
	if r.ISP != nil && *r.ISP != "" {
		return *r.ISP
	}
	if r.Organization != nil && *r.Organization != "" {
		return *r.Organization
	}
	return ""
}

// Describe returns the most specific human-readable place name available.
func (r *LocationRecord) Describe() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.City, r.Region, r.Country} {
		if IsKnown(p) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}

// IsKnown reports whether a descriptive field carries a real value.
func IsKnown(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, Unknown)
}

// ScoredRecord pairs a LocationRecord with its completeness score.
type ScoredRecord struct {
	Record LocationRecord `json:"record"`
	Score  int            `json:"score"`
}

// StringPtr returns a pointer to s, or nil when s is empty after trimming.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
