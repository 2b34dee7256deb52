// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

/*
Package models defines the value types shared by every stage of the Vantage
estimation pipeline.

All values are created fresh for a single request and are never mutated after
construction. Optional fields are pointers so that "absent" survives JSON
serialization as an omitted key rather than a zero value.

Key Components:

  - LocationRecord: normalized provider output (country, region, city, optional
    coordinates, timezone, ISP, organization, postal code, source)
  - ScoredRecord: a LocationRecord plus its completeness score
  - SignalEstimate: partial location hint from one signal estimator
  - StealthEstimate: the blended, permission-free location guess
  - Coordinate / MovementResult: inputs and output of the movement analyzer
  - Fingerprint: deterministic digest of declared client attributes
  - ClientMetadata: optional client-declared attributes (screen, timezone, network)
  - EstimationResult: the composite document returned to callers

Invariants:

  - LocationRecord: latitude is present if and only if longitude is present
  - Coordinate: latitude in [-90, 90], longitude in [-180, 180]
  - Confidence values are integers in [0, 100]

Serialization uses github.com/goccy/go-json with snake_case field names.
*/
package models
