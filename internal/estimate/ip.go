// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import "github.com/tomtom215/vantage/internal/models"

const (
	ipBaseConfidence = 60
	ipCoordsBonus    = 20
	ipCityBonus      = 10
)

// EstimateIP rates the aggregator's record. A record with no place and no
// coordinates (every provider failed) scores 0.
func EstimateIP(in *Input) models.SignalEstimate {
	est := models.SignalEstimate{
		Algorithm:    models.AlgorithmIPGeolocation,
		Location:     emptyLocation(models.SourceNone),
		AccuracyBand: models.AccuracyCityRegion,
	}
	if in == nil {
		return est
	}

	r := in.Record
	if !r.HasCountry() && !r.HasRegion() && !r.HasCity() && !r.HasCoordinates() {
		return est
	}

	confidence := ipBaseConfidence
	switch {
	case r.HasCoordinates():
		confidence += ipCoordsBonus
	case r.HasCity():
		confidence += ipCityBonus
		est.AccuracyBand = models.AccuracyRegional
	default:
		est.AccuracyBand = models.AccuracyBroadRegional
	}

	est.Location = r
	est.Confidence = models.ClampConfidence(confidence, IPConfidenceCap)
	est.Description = r.Describe()
	return est
}
