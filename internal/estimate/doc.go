// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

/*
Package estimate turns weak, passively observed signals into partial
location hints and blends them into one permission-free estimate.

# Estimators

Five estimators each produce one models.SignalEstimate with a capped
confidence:

	ip_geolocation          base 60, +20 with coordinates, +10 city only   cap 85
	network_infrastructure  ISP table bonus 15-20, floor 5, CDN headers     cap 50
	timezone_language       timezone table 20-25, partial -5, languages     cap 65
	connection_quality      downlink, RTT and effective type bands          cap 35
	device_characteristics  cores, memory, screen and browser presence      cap 30

Estimators are pure functions of an Input. Only the IP estimator depends on
network I/O, and it receives the aggregator's record rather than calling
providers itself. Every estimator always returns an estimate, with
confidence 0 when it has nothing to say, so the blender's mean is always
taken over all five.

# Blending

Blend computes a confidence-weighted mean coordinate over the estimates
that carry coordinates. Confidence is the mean of all confidences capped at
90. Without coordinates the single strongest descriptive estimate is used
(cap 75), and with nothing usable the result is "general area only"
(cap 50). The accuracy label is derived from the final confidence only.

# Network hints

Hints reports proxy headers, forwarded hops and hosting-provider keywords.
These are heuristic observations; they are not VPN or Tor detection and
never feed into any confidence value.

# Tables

The ISP, timezone and language tables in tables.go are built once at
package init and are read-only afterwards.
*/
package estimate
