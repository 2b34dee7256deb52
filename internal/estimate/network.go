// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import (
	"net/http"

	"github.com/tomtom215/vantage/internal/models"
)

// unmatchedISPConfidence is the floor for a known but unlisted ISP.
const unmatchedISPConfidence = 5

// EstimateNetwork infers a region from the ISP or organization name and
// adds a little for CDN and routing headers.
func EstimateNetwork(in *Input) models.SignalEstimate {
	est := models.SignalEstimate{
		Algorithm:    models.AlgorithmNetwork,
		Location:     emptyLocation(models.AlgorithmNetwork),
		AccuracyBand: models.AccuracyBroadRegional,
	}
	if in == nil {
		return est
	}

	confidence := 0
	if isp := in.Record.NetworkName(); isp != "" {
		est.Location.ISP = models.StringPtr(isp)
		if m, ok := ispMatcher.First(isp); ok {
			entry := ispTable[m.Data.(int)]
			est.Location.Country = entry.country
			est.Location.Region = entry.region
			est.Location = est.Location.WithCoordinates(entry.lat, entry.lon)
			est.Description = "matched network operator " + entry.keyword
			confidence = entry.bonus
		} else {
			est.Description = "unlisted network operator"
			confidence = unmatchedISPConfidence
		}
	}

	confidence += routingHeaderBonus(in.Header)
	est.Confidence = models.ClampConfidence(confidence, NetworkConfidenceCap)
	return est
}

// routingHeaderBonus adds cdnHeaderBonus per CDN or proxy header present.
func routingHeaderBonus(h http.Header) int {
	bonus := 0
	for _, name := range cdnHeaders {
		if h.Get(name) != "" {
			bonus += cdnHeaderBonus
			if bonus >= cdnHeaderMax {
				return cdnHeaderMax
			}
		}
	}
	return bonus
}
