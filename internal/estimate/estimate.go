// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import (
	"net/http"

	"github.com/tomtom215/vantage/internal/metrics"
	"github.com/tomtom215/vantage/internal/models"
)

// Confidence caps per estimator.
const (
	IPConfidenceCap         = 85
	NetworkConfidenceCap    = 50
	TimezoneConfidenceCap   = 65
	ConnectionConfidenceCap = 35
	DeviceConfidenceCap     = 30
)

// Input is the immutable per-request context shared by all estimators.
// Every field may be zero.
type Input struct {
	// Record is the aggregator's best record for the client IP.
	Record models.LocationRecord

	// Metadata is what the client declared about itself.
	Metadata *models.ClientMetadata

	// Header is the raw request header.
	Header http.Header

	// Device is the user-agent classification.
	Device *models.DeviceInfo
}

// Estimator produces one signal estimate from an Input.
type Estimator interface {
	Name() string
	Estimate(in *Input) models.SignalEstimate
}

// EstimatorFunc adapts a function to the Estimator interface.
type EstimatorFunc struct {
	name string
	fn   func(in *Input) models.SignalEstimate
}

// Name returns the algorithm name.
func (f EstimatorFunc) Name() string { return f.name }

// Estimate calls the wrapped function.
func (f EstimatorFunc) Estimate(in *Input) models.SignalEstimate { return f.fn(in) }

// Default returns the five estimators in reporting order.
func Default() []Estimator {
	return append(RecordBased(), ClientBased()...)
}

// RecordBased returns the estimators that read Input.Record and so must
// wait for the aggregator.
func RecordBased() []Estimator {
	return []Estimator{
		EstimatorFunc{models.AlgorithmIPGeolocation, EstimateIP},
		EstimatorFunc{models.AlgorithmNetwork, EstimateNetwork},
	}
}

// ClientBased returns the estimators that only read client metadata,
// headers and device info. They can run while providers are queried.
func ClientBased() []Estimator {
	return []Estimator{
		EstimatorFunc{models.AlgorithmTimezoneLanguage, EstimateTimezone},
		EstimatorFunc{models.AlgorithmConnection, EstimateConnection},
		EstimatorFunc{models.AlgorithmDevice, EstimateDevice},
	}
}

// Run evaluates estimators in order and records each confidence.
func Run(in *Input, estimators []Estimator) []models.SignalEstimate {
	out := make([]models.SignalEstimate, 0, len(estimators))
	for _, e := range estimators {
		est := e.Estimate(in)
		metrics.RecordSignal(est.Algorithm, est.Confidence)
		out = append(out, est)
	}
	return out
}

// emptyLocation is the sparse record estimators start from.
func emptyLocation(source string) models.LocationRecord {
	r := models.UnknownRecord()
	r.Source = source
	return r
}

func (in *Input) metadata() *models.ClientMetadata {
	if in == nil || in.Metadata == nil {
		return &models.ClientMetadata{}
	}
	return in.Metadata
}
