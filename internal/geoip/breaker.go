// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vantage/internal/logging"
	"github.com/tomtom215/vantage/internal/metrics"
	"github.com/tomtom215/vantage/internal/models"
)

// BreakerSettings configures a provider circuit breaker.
type BreakerSettings struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Interval after which closed-state counts reset.
	Interval time.Duration

	// Timeout spent open before probing again.
	Timeout time.Duration

	// MinRequests before the failure ratio is considered.
	MinRequests uint32

	// FailureRatio at or above which the breaker opens.
	FailureRatio float64
}

// DefaultBreakerSettings returns settings suited to free public providers.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerProvider wraps a Provider with a circuit breaker. While open, Lookup
// fails fast with gobreaker.ErrOpenState; the aggregator treats that like any
// other "no result". There are no retries.
type BreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker[models.LocationRecord]
}

// NewBreaker wraps provider.
func NewBreaker(provider Provider, s BreakerSettings) *BreakerProvider {
	name := provider.Name()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[models.LocationRecord](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("provider", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("provider", name).Str("from", fromStr).Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool { return err == nil || isBenign(err) },
	})

	return &BreakerProvider{provider: provider, cb: cb}
}

// Name returns the wrapped provider's name.
func (b *BreakerProvider) Name() string { return b.provider.Name() }

// IsAvailable returns the wrapped provider's availability.
func (b *BreakerProvider) IsAvailable() bool { return b.provider.IsAvailable() }

// State returns the breaker state.
func (b *BreakerProvider) State() gobreaker.State { return b.cb.State() }

// Lookup calls the wrapped provider through the breaker.
func (b *BreakerProvider) Lookup(ctx context.Context, ip string) (models.LocationRecord, error) {
	name := b.provider.Name()

	record, err := b.cb.Execute(func() (models.LocationRecord, error) {
		return b.provider.Lookup(ctx, ip)
	})
	if err != nil {
		switch {
		case isBreakerRejection(err):
			metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
		case isBenign(err):
			metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).
				Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return models.LocationRecord{}, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
	return record, nil
}

// isBenign reports errors that say nothing about the provider's health: it
// answered "no data", the input was bad, or the caller gave up.
func isBenign(err error) bool {
	return errors.Is(err, ErrNoResult) ||
		errors.Is(err, ErrInvalidIP) ||
		errors.Is(err, context.Canceled)
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
