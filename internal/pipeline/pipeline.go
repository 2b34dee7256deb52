// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package pipeline composes the aggregator, signal estimators, blender,
// movement analyzer and fingerprint generator into one estimation call.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/vantage/internal/device"
	"github.com/tomtom215/vantage/internal/estimate"
	"github.com/tomtom215/vantage/internal/fingerprint"
	"github.com/tomtom215/vantage/internal/logging"
	"github.com/tomtom215/vantage/internal/metrics"
	"github.com/tomtom215/vantage/internal/models"
	"github.com/tomtom215/vantage/internal/movement"
)

// Locator resolves an IP to its best scored record. *geoip.Aggregator
// satisfies it.
type Locator interface {
	Locate(ctx context.Context, ip string) models.ScoredRecord
}

// SessionReader returns the last stored result for a tracking session.
type SessionReader interface {
	Latest(ctx context.Context, sessionID string) (*models.EstimationResult, error)
}

// Recorder accepts completed results. It must not block and must not fail
// the estimation; implementations log their own errors.
type Recorder interface {
	Record(ctx context.Context, result *models.EstimationResult)
}

// Request is the immutable input of one estimation.
type Request struct {
	IP        string
	Header    http.Header
	Metadata  *models.ClientMetadata
	SessionID string

	// Previous is an explicit prior coordinate. When nil and SessionID is
	// set, the session's last stored result is used instead.
	Previous *models.Coordinate

	// TimestampMs of this observation; zero means now.
	TimestampMs int64
}

// Pipeline runs estimations. It is safe for concurrent use.
type Pipeline struct {
	locator  Locator
	sessions SessionReader
	recorder Recorder
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSessions enables movement tracking against stored session results.
func WithSessions(s SessionReader) Option {
	return func(p *Pipeline) { p.sessions = s }
}

// WithRecorder hands every result that carries a session ID to r.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline around locator.
func New(locator Locator, opts ...Option) *Pipeline {
	p := &Pipeline{locator: locator, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Locate returns the precise scored record only.
func (p *Pipeline) Locate(ctx context.Context, ip string) models.ScoredRecord {
	return p.locator.Locate(ctx, ip)
}

// Estimate produces the composite result for req. The only error is a
// malformed previous coordinate (models.ErrInvalidCoordinate); every other
// failure degrades to placeholder values.
func (p *Pipeline) Estimate(ctx context.Context, req *Request) (*models.EstimationResult, error) {
	if req.Previous != nil {
		if err := req.Previous.Validate(); err != nil {
			return nil, fmt.Errorf("previous: %w", err)
		}
	}

	start := p.now()
	ctx = logging.ContextWithSessionID(ctx, req.SessionID)

	header := req.Header
	if header == nil {
		header = http.Header{}
	}
	dev := device.Classify(header.Get("User-Agent"))

	in := &estimate.Input{
		Metadata: req.Metadata,
		Header:   header,
		Device:   &dev,
	}

	// Providers and the client-side estimators run concurrently; the
	// record-based estimators wait for the aggregator.
	var (
		wg     sync.WaitGroup
		scored models.ScoredRecord
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		scored = p.locator.Locate(ctx, req.IP)
	}()
	clientSignals := estimate.Run(in, estimate.ClientBased())
	wg.Wait()

	recordIn := *in
	recordIn.Record = scored.Record
	signals := append(estimate.Run(&recordIn, estimate.RecordBased()), clientSignals...)

	timestamp := req.TimestampMs
	if timestamp == 0 {
		timestamp = start.UnixMilli()
	}
	fp := fingerprint.Generate(req.Metadata, header)

	result := &models.EstimationResult{
		IP:           req.IP,
		Precise:      scored,
		Stealth:      estimate.Blend(signals),
		Signals:      signals,
		Device:       &dev,
		Fingerprint:  &fp,
		NetworkHints: estimate.Hints(req.IP, header, &scored.Record),
		SessionID:    req.SessionID,
		RequestID:    logging.RequestIDFromContext(ctx),
		TimestampMs:  timestamp,
		CreatedAt:    start.UTC(),
	}

	result.Movement = p.analyzeMovement(ctx, req, result)

	if p.recorder != nil && req.SessionID != "" {
		p.recorder.Record(ctx, result)
	}

	elapsed := p.now().Sub(start)
	metrics.RecordEstimate(result.Stealth.Confidence, elapsed)
	logging.CtxDebug(ctx).
		Str("ip", logging.MaskIP(req.IP)).
		Str("source", scored.Record.Source).
		Int("score", scored.Score).
		Int("stealth_confidence", result.Stealth.Confidence).
		Dur("elapsed", elapsed).
		Msg("Estimation complete")

	return result, nil
}

// analyzeMovement compares the result with the previous coordinate, either
// given explicitly or taken from the session's last stored result.
func (p *Pipeline) analyzeMovement(ctx context.Context, req *Request, result *models.EstimationResult) *models.MovementResult {
	curr, ok := result.Coordinate()
	if !ok {
		return nil
	}

	prev := req.Previous
	if prev == nil && req.SessionID != "" && p.sessions != nil {
		last, err := p.sessions.Latest(ctx, req.SessionID)
		switch {
		case err != nil:
			if !errors.Is(err, models.ErrSessionNotFound) {
				logging.CtxWarn(ctx).Err(err).Msg("Failed to load previous session estimate")
			}
		case last != nil:
			if c, found := last.Coordinate(); found {
				prev = &c
			}
		}
	}
	if prev == nil {
		return nil
	}

	res, err := movement.Analyze(*prev, curr)
	if err != nil {
		// stored data that fails validation is skipped, not surfaced
		logging.CtxWarn(ctx).Err(err).Msg("Skipping movement analysis")
		return nil
	}
	metrics.RecordMovement(string(res.MovementType))
	return res
}
