// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package services adapts Vantage components to suture.Service.
//
// Each wrapper blocks in Serve until its context is canceled and implements
// fmt.Stringer so suture can name it in log events:
//
//   - HTTPServerService: ListenAndServe / Shutdown
//   - RecorderService: recorder.Run against the session store
//   - StoreGCService: periodic BadgerDB value log GC
//
// Components are referenced through small interfaces so this package does not
// import them.
package services
