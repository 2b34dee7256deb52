// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package cache provides the in-memory data structures shared by the lookup
// path: a generic TTL-bounded LRU cache for provider results and an
// Aho-Corasick automaton for the keyword tables used by the estimators and
// the device classifier.
//
// # LRU
//
//	c := cache.NewLRU[models.ScoredRecord](10000, 10*time.Minute)
//	c.Add("8.8.8.8", scored)
//	if v, ok := c.Get("8.8.8.8"); ok {
//	    // cached
//	}
//
// Expiry is lazy: expired entries are dropped when touched or by
// CleanupExpired.
//
// # Keyword matching
//
//	ac := cache.NewAhoCorasick([]cache.Pattern{
//	    {Text: "comcast", Data: usEast},
//	    {Text: "deutsche telekom", Data: centralEurope},
//	})
//	m, ok := ac.First("Comcast Cable Communications")
//
// Matching is case-insensitive. First returns the match whose pattern was
// registered earliest, so table order decides between overlapping keywords.
// An automaton is immutable once built and safe for concurrent use.
package cache
