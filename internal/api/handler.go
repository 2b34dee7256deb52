// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package api

import (
	"context"
	"time"

	"github.com/tomtom215/vantage/internal/models"
	"github.com/tomtom215/vantage/internal/pipeline"
)

// Estimator runs estimations. *pipeline.Pipeline satisfies it.
type Estimator interface {
	Estimate(ctx context.Context, req *pipeline.Request) (*models.EstimationResult, error)
	Locate(ctx context.Context, ip string) models.ScoredRecord
}

// SessionStore reads and forgets stored session results. *store.Badger
// satisfies it.
type SessionStore interface {
	Latest(ctx context.Context, sessionID string) (*models.EstimationResult, error)
	History(ctx context.Context, sessionID string, limit int) ([]models.EstimationResult, error)
	Delete(ctx context.Context, sessionID string) error
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	estimator Estimator
	sessions  SessionStore
	checks    map[string]HealthCheck
	version   string
	startTime time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithSessions enables the session routes. Without it they answer 503.
func WithSessions(s SessionStore) HandlerOption {
	return func(h *Handler) { h.sessions = s }
}

// WithHealthCheck adds a named readiness check.
func WithHealthCheck(name string, check HealthCheck) HandlerOption {
	return func(h *Handler) { h.checks[name] = check }
}

// WithVersion sets the version reported by the health endpoints.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) { h.version = version }
}

// NewHandler creates the handler set around estimator.
func NewHandler(estimator Estimator, opts ...HandlerOption) *Handler {
	h := &Handler{
		estimator: estimator,
		checks:    make(map[string]HealthCheck),
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
