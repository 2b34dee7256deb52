// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package main is the entry point for the Vantage server.
//
// Vantage estimates where a client is from what it passively reveals: its
// address, its request headers and whatever the page script chooses to send.
// Nothing asks the user for permission.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, then config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog, with an slog bridge for the supervisor
//  3. GeoIP: remote providers behind circuit breakers, the optional offline
//     database, and the caching aggregator in front of them
//  4. Session store: BadgerDB with per-entry TTL
//  5. Recorder: in-process watermill topic between the pipeline and the store
//  6. Pipeline and HTTP API
//  7. Supervisor tree: data layer (recorder, store GC) and API layer (HTTP)
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains within
// SERVER_SHUTDOWN_TIMEOUT, the recorder stops consuming, then the store is
// closed.
//
// # Example Usage
//
//	export IPINFO_TOKEN=...            # optional
//	export GEOIP_MMDB_PATH=/data/GeoLite2-City.mmdb
//	export STORE_PATH=/data/sessions
//	./vantage
package main
