// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package services

import (
	"context"

	"github.com/thejerf/suture/v4"
)

// RecorderService keeps the recorder's subscriber loop running.
//
// Usage:
//
//	svc := services.NewRecorderService(func(ctx context.Context) error {
//	    return rec.Run(ctx, sessionStore)
//	})
//	tree.AddDataService(svc)
type RecorderService struct {
	run func(ctx context.Context) error
}

// NewRecorderService wraps a consumer loop.
func NewRecorderService(run func(ctx context.Context) error) *RecorderService {
	return &RecorderService{run: run}
}

// Serve implements suture.Service. A loop that returns nil before ctx is
// canceled means the recorder was closed, so the service is not restarted.
func (s *RecorderService) Serve(ctx context.Context) error {
	err := s.run(ctx)
	if err == nil && ctx.Err() == nil {
		return suture.ErrDoNotRestart
	}
	return err
}

func (s *RecorderService) String() string {
	return "recorder"
}
