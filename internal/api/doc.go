// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

/*
Package api exposes the estimation pipeline over HTTP.

Routes:

	POST   /api/v1/locate                  full estimation for the calling client
	GET    /api/v1/locate/{ip}             precise lookup only
	GET    /api/v1/sessions/{id}           last stored estimate of a session
	GET    /api/v1/sessions/{id}/history   stored estimates, newest first
	DELETE /api/v1/sessions/{id}           forget a session
	GET    /api/v1/health/live             process liveness
	GET    /api/v1/health/ready            dependency readiness
	GET    /metrics                        Prometheus exposition

Every JSON response uses the envelope

	{"success": true, "data": {...}, "meta": {...}}
	{"success": false, "error": {"code": "...", "message": "..."}, "meta": {...}}

The client address is r.RemoteAddr. When the router is built with
TrustForwardedIP, chi's RealIP middleware rewrites it from X-Forwarded-For or
X-Real-IP first; leave it off unless a trusted proxy sets those headers. The
ip query parameter on POST /locate overrides the address for diagnostics.
*/
package api
