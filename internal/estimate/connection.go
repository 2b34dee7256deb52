// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import "github.com/tomtom215/vantage/internal/models"

// effectiveTypeBonus is the fixed bonus per Network Information API type.
var effectiveTypeBonus = map[string]int{
	"4g":      4,
	"3g":      3,
	"2g":      2,
	"slow-2g": 1,
}

// EstimateConnection rates declared connection quality. It never produces
// coordinates; fast, low-latency links only hint at dense infrastructure.
func EstimateConnection(in *Input) models.SignalEstimate {
	est := models.SignalEstimate{
		Algorithm:    models.AlgorithmConnection,
		Location:     emptyLocation(models.AlgorithmConnection),
		AccuracyBand: models.AccuracyVeryBroad,
	}
	meta := in.metadata()
	confidence := 0

	if meta.Downlink != nil {
		switch d := *meta.Downlink; {
		case d > 100:
			confidence += 5
			est.Description = "high-speed infrastructure region"
		case d > 25:
			confidence += 3
			est.Description = "moderate bandwidth region"
		}
	}

	if meta.RTT != nil {
		switch rtt := *meta.RTT; {
		case rtt < 10:
			confidence += 8
		case rtt < 30:
			confidence += 5
		case rtt < 100:
			confidence += 3
		default:
			confidence++
		}
	}

	confidence += effectiveTypeBonus[meta.EffectiveType]

	est.Confidence = models.ClampConfidence(confidence, ConnectionConfidenceCap)
	return est
}
