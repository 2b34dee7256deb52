// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package movement

import (
	"fmt"
	"math"

	"github.com/tomtom215/vantage/internal/models"
)

const (
	// EarthRadiusMeters is the mean Earth radius used for haversine.
	EarthRadiusMeters = 6_371_000.0

	// StationaryMeters is the distance below which a client has not moved.
	StationaryMeters = 5.0

	// SignificantMeters is the distance above which a move is significant.
	SignificantMeters = 10.0

	walkingMaxKmh = 5.0
	cyclingMaxKmh = 25.0
	drivingMaxKmh = 80.0
)

// Analyze describes the transition from prev to curr. Both coordinates are
// validated first; an out-of-range value returns models.ErrInvalidCoordinate.
func Analyze(prev, curr models.Coordinate) (*models.MovementResult, error) {
	if err := prev.Validate(); err != nil {
		return nil, fmt.Errorf("previous coordinate: %w", err)
	}
	if err := curr.Validate(); err != nil {
		return nil, fmt.Errorf("current coordinate: %w", err)
	}

	distance := Distance(prev, curr)
	deltaMs := curr.TimestampMs - prev.TimestampMs
	speed := SpeedKmh(distance, deltaMs)

	return &models.MovementResult{
		DistanceMeters: distance,
		TimeDeltaMs:    deltaMs,
		SpeedKmh:       speed,
		BearingDegrees: Bearing(prev, curr),
		MovementType:   Classify(distance, speed),
		IsSignificant:  distance > SignificantMeters,
	}, nil
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b models.Coordinate) float64 {
	lat1, lon1 := toRadians(a.Latitude), toRadians(a.Longitude)
	lat2, lon2 := toRadians(b.Latitude), toRadians(b.Longitude)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push h a hair past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial bearing (forward azimuth) from a to b in
// degrees, normalized to [0, 360). Identical points yield 0.
func Bearing(a, b models.Coordinate) float64 {
	lat1, lat2 := toRadians(a.Latitude), toRadians(b.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// SpeedKmh converts a distance over a time delta to km/h. A non-positive
// delta yields 0.
func SpeedKmh(distanceMeters float64, deltaMs int64) float64 {
	if deltaMs <= 0 {
		return 0
	}
	seconds := float64(deltaMs) / 1000
	return distanceMeters / seconds * 3.6
}

// Classify maps distance and speed to a movement type.
func Classify(distanceMeters, speedKmh float64) models.MovementType {
	switch {
	case distanceMeters < StationaryMeters:
		return models.MovementStationary
	case speedKmh < walkingMaxKmh:
		return models.MovementWalking
	case speedKmh < cyclingMaxKmh:
		return models.MovementCycling
	case speedKmh < drivingMaxKmh:
		return models.MovementDriving
	default:
		return models.MovementHighSpeed
	}
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
