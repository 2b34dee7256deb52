// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/vantage/internal/logging"
)

func serveWithRequestID(t *testing.T, upstream string) (header, inContext string) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inContext = logging.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if upstream != "" {
		req.Header.Set(RequestIDHeader, upstream)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Header().Get(RequestIDHeader), inContext
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	header, ctxID := serveWithRequestID(t, "")
	if header == "" {
		t.Fatal("expected X-Request-ID response header")
	}
	if _, err := uuid.Parse(header); err != nil {
		t.Errorf("generated ID %q is not a UUID: %v", header, err)
	}
	if ctxID != header {
		t.Errorf("context ID %q does not match header %q", ctxID, header)
	}
}

func TestRequestID_PreservesUpstreamID(t *testing.T) {
	t.Parallel()

	header, ctxID := serveWithRequestID(t, "edge-proxy_42.a")
	if header != "edge-proxy_42.a" || ctxID != "edge-proxy_42.a" {
		t.Errorf("upstream ID not preserved: header=%q ctx=%q", header, ctxID)
	}
}

func TestRequestID_ReplacesUnsafeUpstreamID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		upstream string
	}{
		{"newline injection", "abc\nlevel=error"},
		{"spaces", "a b c"},
		{"too long", strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			header, _ := serveWithRequestID(t, tt.upstream)
			if header == tt.upstream {
				t.Errorf("unsafe upstream ID %q was accepted", tt.upstream)
			}
			if _, err := uuid.Parse(header); err != nil {
				t.Errorf("replacement ID %q is not a UUID", header)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		header, _ := serveWithRequestID(t, "")
		if seen[header] {
			t.Fatalf("duplicate request ID %q", header)
		}
		seen[header] = true
	}
}
