// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import (
	"math"

	"github.com/tomtom215/vantage/internal/models"
)

// Blended confidence caps.
const (
	BlendCoordinateCap  = 90
	BlendDescriptiveCap = 75
	BlendGeneralCap     = 50
)

// Stealth estimate sources.
const (
	SourceWeightedBlend = "weighted_blend"
	SourceGeneralArea   = "general_area"

	generalAreaRegion = "general area only"
)

// Blend combines signal estimates into one stealth estimate.
//
// Estimates with coordinates contribute to a mean weighted by
// confidence/100; the blended confidence is the mean over all estimates,
// including those without coordinates. Blend never fails.
func Blend(estimates []models.SignalEstimate) models.StealthEstimate {
	var sumW, sumLat, sumLon float64
	for i := range estimates {
		e := &estimates[i]
		if !e.HasCoordinates() || e.Confidence <= 0 {
			continue
		}
		w := float64(e.Confidence) / 100
		sumW += w
		sumLat += w * *e.Location.Latitude
		sumLon += w * *e.Location.Longitude
	}

	mean := meanConfidence(estimates)

	if sumW > 0 {
		lat, lon := sumLat/sumW, sumLon/sumW
		conf := models.ClampConfidence(mean, BlendCoordinateCap)
		out := models.StealthEstimate{
			Latitude:   &lat,
			Longitude:  &lon,
			Confidence: conf,
			Accuracy:   AccuracyLabel(conf),
			Source:     SourceWeightedBlend,
		}
		if top, ok := strongest(estimates, true); ok {
			out.Region = top.Location.Describe()
		}
		return out
	}

	if top, ok := strongest(estimates, false); ok {
		conf := models.ClampConfidence(top.Confidence, BlendDescriptiveCap)
		return models.StealthEstimate{
			Confidence: conf,
			Accuracy:   AccuracyLabel(conf),
			Source:     top.Algorithm,
			Region:     top.Location.Describe(),
		}
	}

	conf := models.ClampConfidence(mean, BlendGeneralCap)
	return models.StealthEstimate{
		Confidence: conf,
		Accuracy:   AccuracyLabel(conf),
		Source:     SourceGeneralArea,
		Region:     generalAreaRegion,
	}
}

// AccuracyLabel maps a confidence to a descriptive radius. It is metadata
// only and never feeds back into confidence.
func AccuracyLabel(confidence int) string {
	switch {
	case confidence > 80:
		return "100m-2km"
	case confidence > 60:
		return "1km-10km"
	case confidence > 40:
		return "5km-50km"
	case confidence > 20:
		return "20km-200km"
	default:
		return "regional only"
	}
}

func meanConfidence(estimates []models.SignalEstimate) int {
	if len(estimates) == 0 {
		return 0
	}
	total := 0
	for i := range estimates {
		total += estimates[i].Confidence
	}
	return int(math.Round(float64(total) / float64(len(estimates))))
}

// strongest returns the highest-confidence estimate with descriptive fields,
// optionally also requiring coordinates. The earliest wins ties.
func strongest(estimates []models.SignalEstimate, needCoords bool) (*models.SignalEstimate, bool) {
	var best *models.SignalEstimate
	for i := range estimates {
		e := &estimates[i]
		if !e.HasDescriptiveFields() || e.Confidence <= 0 {
			continue
		}
		if needCoords && !e.HasCoordinates() {
			continue
		}
		if best == nil || e.Confidence > best.Confidence {
			best = e
		}
	}
	return best, best != nil
}
