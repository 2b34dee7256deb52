// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import "github.com/tomtom215/vantage/internal/models"

// Score weights. Coordinates dominate because they are what the rest of the
// pipeline consumes.
const (
	scoreCountry     = 1
	scoreRegion      = 1
	scoreCity        = 1
	scoreCoordinates = 3
	scoreTimezone    = 1
	scoreNetwork     = 1

	// MaxScore is the score of a fully populated record. The weights add up
	// to one more than this, so the sum is capped.
	MaxScore = 7
)

// Score rates how complete a record is, from 0 to MaxScore.
func Score(r *models.LocationRecord) int {
	score := 0
	if r.HasCountry() {
		score += scoreCountry
	}
	if r.HasRegion() {
		score += scoreRegion
	}
	if r.HasCity() {
		score += scoreCity
	}
	if r.HasCoordinates() {
		score += scoreCoordinates
	}
	if r.HasTimezone() {
		score += scoreTimezone
	}
	if r.NetworkName() != "" {
		score += scoreNetwork
	}
	return min(score, MaxScore)
}

// Best returns the highest-scoring record. A later record must score strictly
// higher to replace an earlier one, so ties go to the first in slice order.
// An empty slice yields the Unknown record with score 0.
func Best(records []models.LocationRecord) models.ScoredRecord {
	if len(records) == 0 {
		return models.ScoredRecord{Record: models.UnknownRecord(), Score: 0}
	}

	best := models.ScoredRecord{Record: records[0], Score: Score(&records[0])}
	for i := 1; i < len(records); i++ {
		if s := Score(&records[i]); s > best.Score {
			best = models.ScoredRecord{Record: records[i], Score: s}
		}
	}
	return best
}
