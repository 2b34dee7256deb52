// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package models

import "fmt"

// Coordinate is a timestamped point on the Earth's surface.
type Coordinate struct {
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	TimestampMs int64   `json:"timestamp_ms" validate:"gte=0"`
}

// Validate rejects out-of-range or NaN coordinates.
func (c Coordinate) Validate() error {
	if !ValidLatitude(c.Latitude) || !ValidLongitude(c.Longitude) {
		return fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinate, c.Latitude, c.Longitude)
	}
	return nil
}

// ValidLatitude reports whether lat is within [-90, 90]. NaN is invalid.
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is within [-180, 180]. NaN is invalid.
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// MovementType classifies the speed between two coordinates.
type MovementType string

const (
	MovementStationary MovementType = "stationary"
	MovementWalking    MovementType = "walking"
	MovementCycling    MovementType = "cycling"
	MovementDriving    MovementType = "driving"
	MovementHighSpeed  MovementType = "high_speed"
)

// MovementResult describes the transition between two coordinates.
type MovementResult struct {
	DistanceMeters float64      `json:"distance_m"`
	TimeDeltaMs    int64        `json:"time_delta_ms"`
	SpeedKmh       float64      `json:"speed_kmh"`
	BearingDegrees float64      `json:"bearing_deg"`
	MovementType   MovementType `json:"movement_type"`
	IsSignificant  bool         `json:"is_significant"`
}
