// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Command vantagectl is the operator CLI for a running Vantage server.
//
//	vantagectl locate                      estimate this machine's location
//	vantagectl locate 203.0.113.7 --precise
//	vantagectl session my-session --history 5
//	vantagectl distance 52.52 13.40 48.85 2.35 --seconds 3600
//	vantagectl health
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
