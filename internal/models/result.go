// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package models

import "time"

// EstimationResult is the composite document produced for one request.
// Field names are part of the external contract.
type EstimationResult struct {
	IP           string           `json:"ip"`
	Precise      ScoredRecord     `json:"precise"`
	Stealth      StealthEstimate  `json:"stealth"`
	Signals      []SignalEstimate `json:"signals"`
	Device       *DeviceInfo      `json:"device,omitempty"`
	Fingerprint  *Fingerprint     `json:"fingerprint,omitempty"`
	Movement     *MovementResult  `json:"movement,omitempty"`
	NetworkHints NetworkHints     `json:"network_hints"`
	SessionID    string           `json:"session_id,omitempty"`
	RequestID    string           `json:"request_id,omitempty"`
	TimestampMs  int64            `json:"timestamp_ms"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Coordinate returns the best coordinate of the result for movement tracking:
// the precise record when it has coordinates, otherwise the stealth estimate.
// Returns false when neither carries coordinates.
func (r *EstimationResult) Coordinate() (Coordinate, bool) {
	if r.Precise.Record.HasCoordinates() {
		return Coordinate{
			Latitude:    *r.Precise.Record.Latitude,
			Longitude:   *r.Precise.Record.Longitude,
			TimestampMs: r.TimestampMs,
		}, true
	}
	if r.Stealth.HasCoordinates() {
		return Coordinate{
			Latitude:    *r.Stealth.Latitude,
			Longitude:   *r.Stealth.Longitude,
			TimestampMs: r.TimestampMs,
		}, true
	}
	return Coordinate{}, false
}
