// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tomtom215/vantage/internal/cache"
	"github.com/tomtom215/vantage/internal/logging"
	"github.com/tomtom215/vantage/internal/metrics"
	"github.com/tomtom215/vantage/internal/models"
)

const (
	// DefaultLookupTimeout bounds each provider call.
	DefaultLookupTimeout = 3000 * time.Millisecond

	// MaxLookupTimeout is the largest per-call bound accepted.
	MaxLookupTimeout = 3000 * time.Millisecond
)

// Aggregator fans a lookup out to every registered provider and keeps the
// most complete answer.
type Aggregator struct {
	providers []Provider
	timeout   time.Duration
	cache     *cache.LRU[models.ScoredRecord]
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTimeout sets the per-provider timeout, clamped to (0, MaxLookupTimeout].
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 && d <= MaxLookupTimeout {
			a.timeout = d
		}
	}
}

// WithCache caches selected records per IP. Unknown results are not cached so
// a provider outage is not remembered past its end.
func WithCache(size int, ttl time.Duration) Option {
	return func(a *Aggregator) {
		if size > 0 {
			a.cache = cache.NewLRU[models.ScoredRecord](size, ttl)
		}
	}
}

// NewAggregator creates an aggregator. Registration order is the tie-break
// order between equally scored results.
func NewAggregator(providers []Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		providers: providers,
		timeout:   DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Providers returns the registered providers in registration order.
func (a *Aggregator) Providers() []Provider {
	out := make([]Provider, len(a.providers))
	copy(out, a.providers)
	return out
}

// Locate resolves rawIP to the best available record. It never fails:
// private addresses get the Local record, unusable input and total provider
// failure get the Unknown record.
func (a *Aggregator) Locate(ctx context.Context, rawIP string) models.ScoredRecord {
	ip := NormalizeIP(rawIP)

	if IsPrivateIP(ip) {
		local := models.LocalRecord()
		scored := models.ScoredRecord{Record: local, Score: Score(&local)}
		metrics.RecordSelection(models.SourceLocal, scored.Score)
		return scored
	}
	if net.ParseIP(ip) == nil {
		logging.CtxWarn(ctx).Str("ip", logging.TruncateString(rawIP, 64)).Msg("Not an IP literal, skipping provider lookups")
		metrics.RecordSelection(models.SourceNone, 0)
		return models.ScoredRecord{Record: models.UnknownRecord()}
	}

	if a.cache != nil {
		if scored, ok := a.cache.Get(ip); ok {
			metrics.RecordCacheLookup(true)
			logging.CtxDebug(ctx).Str("ip", logging.MaskIP(ip)).Str("source", scored.Record.Source).Msg("GeoIP cache hit")
			return scored
		}
		metrics.RecordCacheLookup(false)
	}

	best := Best(a.Resolve(ctx, ip))
	metrics.RecordSelection(best.Record.Source, best.Score)

	if a.cache != nil && best.Record.Source != models.SourceNone {
		a.cache.Add(ip, best)
	}
	return best
}

// Resolve queries every available provider concurrently and returns the
// records that came back, in registration order. Each call is bounded by the
// aggregator's timeout independently of the others.
func (a *Aggregator) Resolve(ctx context.Context, ip string) []models.LocationRecord {
	type slot struct {
		record models.LocationRecord
		ok     bool
	}
	slots := make([]slot, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		if !p.IsAvailable() {
			metrics.RecordProviderLookup(p.Name(), metrics.OutcomeSkipped, 0)
			continue
		}
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			slots[i].record, slots[i].ok = LookupOne(ctx, p, ip, a.timeout)
		}(i, p)
	}
	wg.Wait()

	records := make([]models.LocationRecord, 0, len(slots))
	for _, s := range slots {
		if s.ok {
			records = append(records, s.record)
		}
	}
	return records
}

// LookupOne performs one bounded lookup against p. Every failure becomes
// "no result" (false) and is logged at warn level; nothing is returned to the
// caller as an error. Private addresses return the Local record without
// calling p.
func LookupOne(ctx context.Context, p Provider, ip string, timeout time.Duration) (record models.LocationRecord, ok bool) {
	if IsPrivateIP(ip) {
		return models.LocalRecord(), true
	}
	if timeout <= 0 || timeout > MaxLookupTimeout {
		timeout = DefaultLookupTimeout
	}

	name := p.Name()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	record, err := safeLookup(callCtx, p, ip)
	elapsed := time.Since(start)

	if err == nil {
		if verr := record.Validate(); verr != nil {
			record.Latitude, record.Longitude = nil, nil
			logging.CtxWarn(ctx).Err(verr).Str("provider", name).Msg("Provider returned invalid coordinates, dropping them")
		}
		if isEmpty(&record) && record.NetworkName() == "" && !record.HasTimezone() {
			err = fmt.Errorf("%s: %w: empty record", name, ErrNoResult)
		}
	}
	if err != nil {
		outcome := metrics.OutcomeNoResult
		if isRejected(err) {
			outcome = metrics.OutcomeRejected
		}
		metrics.RecordProviderLookup(name, outcome, elapsed)
		logging.CtxWarn(ctx).
			Err(err).
			Str("provider", name).
			Str("ip", logging.MaskIP(ip)).
			Dur("elapsed", elapsed).
			Msg("GeoIP provider returned no result")
		return models.LocationRecord{}, false
	}

	record.Source = name
	metrics.RecordProviderLookup(name, metrics.OutcomeSuccess, elapsed)
	return record, true
}

// safeLookup runs p.Lookup so that the call returns by ctx's deadline even
// when the provider ignores cancellation, and a provider panic becomes an
// error instead of taking down the request.
func safeLookup(ctx context.Context, p Provider, ip string) (models.LocationRecord, error) {
	type result struct {
		record models.LocationRecord
		err    error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%s: provider panic: %v", p.Name(), r)}
			}
		}()
		record, err := p.Lookup(ctx, ip)
		done <- result{record: record, err: err}
	}()

	select {
	case res := <-done:
		return res.record, res.err
	case <-ctx.Done():
		return models.LocationRecord{}, fmt.Errorf("%s: %w", p.Name(), ctx.Err())
	}
}

func isRejected(err error) bool {
	return errors.Is(err, ErrRateLimited) || isBreakerRejection(err)
}
