// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

/*
Package movement compares two timestamped coordinates.

It computes the great-circle distance (haversine on a spherical Earth of
radius 6,371 km), the initial bearing, the average speed and a coarse
movement classification:

	distance < 5 m        stationary
	speed    < 5 km/h     walking
	speed    < 25 km/h    cycling
	speed    < 80 km/h    driving
	otherwise             high_speed

A transition is significant when the distance exceeds 10 m. A zero or
negative time delta yields a speed of 0, never NaN or infinity.

All functions are pure and deterministic.
*/
package movement
