// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

/*
Package middleware provides the HTTP middleware shared by the API router.

Key Components:

  - RequestID: accepts a well-formed upstream X-Request-ID or generates a
    UUID, echoes it on the response and stores it in the logging context
  - Metrics: Prometheus request counters, latency histograms and the
    in-flight gauge, labelled by chi route pattern rather than raw path

Both are plain func(http.Handler) http.Handler values so they compose with
chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)

Labelling by route pattern keeps the metric cardinality bounded: the
request /api/v1/locate/203.0.113.7 is recorded as /api/v1/locate/{ip}.
*/
package middleware
