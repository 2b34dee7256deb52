// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import (
	"strings"

	"github.com/tomtom215/vantage/internal/models"
)

// EstimateDevice is a weak signal: capable hardware is slightly more common
// in some markets. It never produces coordinates.
func EstimateDevice(in *Input) models.SignalEstimate {
	est := models.SignalEstimate{
		Algorithm:    models.AlgorithmDevice,
		Location:     emptyLocation(models.AlgorithmDevice),
		AccuracyBand: models.AccuracyVeryBroad,
	}
	meta := in.metadata()
	confidence := 0

	if c := meta.HardwareConcurrency; c != nil {
		switch {
		case *c >= 8:
			confidence += 3
		case *c >= 4:
			confidence += 2
		}
	}
	if m := meta.DeviceMemory; m != nil {
		switch {
		case *m >= 8:
			confidence += 3
		case *m >= 4:
			confidence += 2
		}
	}
	if strings.TrimSpace(meta.ScreenResolution) != "" {
		confidence += 2
	}
	if in != nil && in.Device.HasBrowserPattern() {
		confidence += 2
		est.Description = in.Device.Browser + " on " + in.Device.OS
	}

	est.Confidence = models.ClampConfidence(confidence, DeviceConfidenceCap)
	return est
}
