// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package metrics

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordProviderLookup(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		outcome  string
	}{
		{"success", "test-provider-a", OutcomeSuccess},
		{"no result", "test-provider-a", OutcomeNoResult},
		{"rejected by breaker", "test-provider-b", OutcomeRejected},
		{"skipped", "test-provider-c", OutcomeSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(ProviderLookups.WithLabelValues(tt.provider, tt.outcome))
			RecordProviderLookup(tt.provider, tt.outcome, 120*time.Millisecond)
			after := testutil.ToFloat64(ProviderLookups.WithLabelValues(tt.provider, tt.outcome))
			if after != before+1 {
				t.Errorf("lookup counter = %v, want %v", after, before+1)
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(GeoCacheHits)
	misses := testutil.ToFloat64(GeoCacheMisses)

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	if got := testutil.ToFloat64(GeoCacheHits); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(GeoCacheMisses); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestRecordSelection(t *testing.T) {
	before := testutil.ToFloat64(AggregatorSelections.WithLabelValues("none"))
	RecordSelection("none", 0)
	if got := testutil.ToFloat64(AggregatorSelections.WithLabelValues("none")); got != before+1 {
		t.Errorf("selections = %v, want %v", got, before+1)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	okBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("test_put", "success"))
	errBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("test_put", "error"))

	RecordStoreOperation("test_put", nil)
	RecordStoreOperation("test_put", errors.New("disk full"))

	if got := testutil.ToFloat64(StoreOperations.WithLabelValues("test_put", "success")); got != okBefore+1 {
		t.Errorf("success = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(StoreOperations.WithLabelValues("test_put", "error")); got != errBefore+1 {
		t.Errorf("error = %v, want %v", got, errBefore+1)
	}
}

func TestRecordRecorderEventAndMovement(t *testing.T) {
	before := testutil.ToFloat64(RecorderEvents.WithLabelValues(RecorderPersisted))
	RecordRecorderEvent(RecorderPersisted)
	if got := testutil.ToFloat64(RecorderEvents.WithLabelValues(RecorderPersisted)); got != before+1 {
		t.Errorf("recorder events = %v, want %v", got, before+1)
	}

	mBefore := testutil.ToFloat64(MovementClassifications.WithLabelValues("walking"))
	RecordMovement("walking")
	if got := testutil.ToFloat64(MovementClassifications.WithLabelValues("walking")); got != mBefore+1 {
		t.Errorf("movement = %v, want %v", got, mBefore+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
}

func TestRecordAPIRequestAndEstimate(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/locate", "200"))
	RecordAPIRequest("POST", "/api/v1/locate", "200", 40*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/locate", "200")); got != before+1 {
		t.Errorf("api requests = %v, want %v", got, before+1)
	}

	// Histograms: only check that recording does not panic.
	RecordEstimate(62, 180*time.Millisecond)
	RecordSignal("ip_geolocation", 80)
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("test-version")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("test-version", runtime.Version())); got != 1 {
		t.Errorf("app_info = %v, want 1", got)
	}
}
