// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package services

import (
	"context"
	"time"

	"github.com/tomtom215/vantage/internal/logging"
)

// GarbageCollector is satisfied by *store.Badger.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService runs value log GC on a fixed interval. GC errors are logged
// and do not stop the service.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
}

// NewStoreGCService creates the service. A non-positive interval becomes 10m.
func NewStoreGCService(gc GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{gc: gc, interval: interval}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.gc.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Session store GC failed")
			}
		}
	}
}

func (s *StoreGCService) String() string {
	return "store-gc"
}
