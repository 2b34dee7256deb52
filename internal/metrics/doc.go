// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package metrics defines the Prometheus collectors exported at /metrics.
//
// Collectors are registered on the default registry through promauto at
// package init, so importing the package is enough to expose them. The
// Record* helpers keep label values consistent across call sites.
//
// # Provider lookups
//
//   - vantage_provider_lookups_total{provider,outcome}: outcome is one of
//     success, no_result, rejected (circuit open) or skipped (unavailable)
//   - vantage_provider_lookup_duration_seconds{provider}
//   - vantage_geoip_cache_hits_total / vantage_geoip_cache_misses_total
//   - vantage_aggregator_selections_total{source}: winning provider, "none"
//     when every provider failed, "local" for private addresses
//   - circuit_breaker_* per provider breaker
//
// # Estimation
//
//   - vantage_signal_confidence{algorithm}
//   - vantage_stealth_confidence
//   - vantage_pipeline_duration_seconds
//   - vantage_movement_classifications_total{movement_type}
//
// # Persistence
//
//   - vantage_recorder_events_total{outcome}
//   - vantage_store_operations_total{operation,result}
//
// # Example alert
//
//	- alert: AllGeoProvidersFailing
//	  expr: sum(rate(vantage_aggregator_selections_total{source="none"}[5m]))
//	        / sum(rate(vantage_aggregator_selections_total[5m])) > 0.5
//	  for: 10m
package metrics
