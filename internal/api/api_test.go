// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vantage/internal/models"
	"github.com/tomtom215/vantage/internal/pipeline"
	"github.com/tomtom215/vantage/internal/validation"
)

// fakeEstimator records the last request and returns canned values.
type fakeEstimator struct {
	mu      sync.Mutex
	lastReq *pipeline.Request
	err     error
}

func (f *fakeEstimator) Estimate(_ context.Context, req *pipeline.Request) (*models.EstimationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.EstimationResult{IP: req.IP, SessionID: req.SessionID, TimestampMs: 1000}, nil
}

func (f *fakeEstimator) Locate(_ context.Context, ip string) models.ScoredRecord {
	return models.ScoredRecord{
		Record: models.LocationRecord{Country: "Germany", City: "Berlin", Source: "test"}.WithCoordinates(52.52, 13.40),
		Score:  75,
	}
}

func (f *fakeEstimator) last() *pipeline.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

// fakeSessions is an in-memory SessionStore.
type fakeSessions struct {
	mu      sync.Mutex
	results map[string][]models.EstimationResult // newest first
	err     error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{results: make(map[string][]models.EstimationResult)}
}

func (f *fakeSessions) Latest(_ context.Context, id string) (*models.EstimationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	list := f.results[id]
	if len(list) == 0 {
		return nil, models.ErrSessionNotFound
	}
	r := list[0]
	return &r, nil
}

func (f *fakeSessions) History(_ context.Context, id string, limit int) ([]models.EstimationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	list := f.results[id]
	if len(list) == 0 {
		return nil, models.ErrSessionNotFound
	}
	if limit < len(list) {
		list = list[:limit]
	}
	return append([]models.EstimationResult(nil), list...), nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.results, id)
	return nil
}

// envelope is the decoded response with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Meta *APIMeta `json:"meta"`
}

func testRouter(h *Handler) http.Handler {
	return NewRouter(h, RouterConfig{CORSOrigins: []string{"*"}, RateLimitDisabled: true})
}

func do(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestLocate_UsesRemoteAddr(t *testing.T) {
	t.Parallel()

	est := &fakeEstimator{}
	rec, env := do(t, testRouter(NewHandler(est)), http.MethodPost, "/api/v1/locate", "")

	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	// httptest.NewRequest uses 192.0.2.1:1234
	if got := est.last().IP; got != "192.0.2.1" {
		t.Errorf("IP = %q, want 192.0.2.1", got)
	}
	if env.Meta == nil || env.Meta.RequestID == "" {
		t.Error("expected request ID in meta")
	}
	if env.Meta.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("meta request ID %q does not match header %q", env.Meta.RequestID, rec.Header().Get("X-Request-ID"))
	}
}

func TestLocate_PassesBodyThrough(t *testing.T) {
	t.Parallel()

	est := &fakeEstimator{}
	body := `{
		"session_id": "sess-1",
		"timestamp_ms": 5000,
		"previous": {"latitude": 48.85, "longitude": 2.35, "timestamp_ms": 1000},
		"metadata": {"timezone": "Europe/Berlin", "effective_type": "4g"}
	}`
	rec, env := do(t, testRouter(NewHandler(est)), http.MethodPost, "/api/v1/locate?ip=203.0.113.7", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	req := est.last()
	if req.IP != "203.0.113.7" {
		t.Errorf("IP override not applied: %q", req.IP)
	}
	if req.SessionID != "sess-1" || req.TimestampMs != 5000 {
		t.Errorf("unexpected request %+v", req)
	}
	if req.Previous == nil || req.Previous.Latitude != 48.85 {
		t.Errorf("previous not passed through: %+v", req.Previous)
	}
	if req.Metadata == nil || req.Metadata.Timezone != "Europe/Berlin" {
		t.Errorf("metadata not passed through: %+v", req.Metadata)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Error("request headers should reach the estimator")
	}

	var result models.EstimationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.SessionID != "sess-1" {
		t.Errorf("result session = %q", result.SessionID)
	}
}

func TestLocate_RejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		target    string
		body      string
		wantCode  string
		wantField string
	}{
		{"malformed JSON", "/api/v1/locate", `{"session_id":`, ErrCodeBadRequest, ""},
		{"unknown field", "/api/v1/locate", `{"sessionid":"x"}`, ErrCodeBadRequest, ""},
		{"bad session id", "/api/v1/locate", `{"session_id":"a:b"}`, validation.ErrorCode, "session_id"},
		{"latitude out of range", "/api/v1/locate", `{"previous":{"latitude":91,"longitude":0,"timestamp_ms":1}}`, validation.ErrorCode, "previous.latitude"},
		{"bad effective type", "/api/v1/locate", `{"metadata":{"effective_type":"5g"}}`, validation.ErrorCode, "metadata.effective_type"},
		{"negative timestamp", "/api/v1/locate", `{"timestamp_ms":-1}`, validation.ErrorCode, "timestamp_ms"},
		{"bad ip override", "/api/v1/locate?ip=not-an-ip", "", validation.ErrorCode, "ip"},
		{"oversized body", "/api/v1/locate", `{"metadata":{"platform":"` + strings.Repeat("x", maxLocateBody) + `"}}`, ErrCodeBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			est := &fakeEstimator{}
			rec, env := do(t, testRouter(NewHandler(est)), http.MethodPost, tt.target, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
			if env.Success || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("unexpected envelope: %s", rec.Body.String())
			}
			if tt.wantField != "" && env.Error.Details["field"] != tt.wantField {
				t.Errorf("details.field = %v, want %q", env.Error.Details["field"], tt.wantField)
			}
			if est.last() != nil {
				t.Error("estimator must not run for rejected input")
			}
		})
	}
}

func TestLocate_EstimatorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid coordinate", fmt.Errorf("previous: %w", models.ErrInvalidCoordinate), http.StatusBadRequest, ErrCodeInvalidCoordinate},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := do(t, testRouter(NewHandler(&fakeEstimator{err: tt.err})), http.MethodPost, "/api/v1/locate", "{}")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("unexpected envelope: %s", rec.Body.String())
			}
			if tt.wantStatus == http.StatusInternalServerError && strings.Contains(env.Error.Message, "boom") {
				t.Error("internal error text leaked to the client")
			}
		})
	}
}

func TestLocate_WithRealPipeline(t *testing.T) {
	t.Parallel()

	p := pipeline.New(&fakeEstimator{})
	router := testRouter(NewHandler(p))

	body := `{"metadata":{"timezone":"Europe/Berlin","language":"de-DE"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/locate?ip=203.0.113.7", strings.NewReader(body))
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var result models.EstimationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.Precise.Record.City != "Berlin" || result.Precise.Score != 75 {
		t.Errorf("unexpected precise record %+v", result.Precise)
	}
	if len(result.Signals) == 0 {
		t.Error("expected signal estimates")
	}
	if result.Fingerprint == nil || result.Fingerprint.Hash == "" {
		t.Error("expected a fingerprint")
	}
	if result.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("result request ID %q does not match header", result.RequestID)
	}
}

func TestLocateIP(t *testing.T) {
	t.Parallel()

	router := testRouter(NewHandler(&fakeEstimator{}))

	rec, env := do(t, router, http.MethodGet, "/api/v1/locate/203.0.113.7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var scored models.ScoredRecord
	if err := json.Unmarshal(env.Data, &scored); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if scored.Score != 75 || scored.Record.Country != "Germany" {
		t.Errorf("unexpected scored record %+v", scored)
	}

	rec, env = do(t, router, http.MethodGet, "/api/v1/locate/not-an-ip", "")
	if rec.Code != http.StatusBadRequest || env.Error.Code != validation.ErrorCode {
		t.Errorf("invalid IP: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSessions(t *testing.T) {
	t.Parallel()

	sessions := newFakeSessions()
	sessions.results["abc"] = []models.EstimationResult{
		{SessionID: "abc", TimestampMs: 3},
		{SessionID: "abc", TimestampMs: 2},
		{SessionID: "abc", TimestampMs: 1},
	}
	router := testRouter(NewHandler(&fakeEstimator{}, WithSessions(sessions)))

	t.Run("latest", func(t *testing.T) {
		rec, env := do(t, router, http.MethodGet, "/api/v1/sessions/abc", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var result models.EstimationResult
		if err := json.Unmarshal(env.Data, &result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.TimestampMs != 3 {
			t.Errorf("TimestampMs = %d, want 3", result.TimestampMs)
		}
	})

	t.Run("history with limit", func(t *testing.T) {
		rec, env := do(t, router, http.MethodGet, "/api/v1/sessions/abc/history?limit=2", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var history SessionHistory
		if err := json.Unmarshal(env.Data, &history); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if history.Count != 2 || history.Results[0].TimestampMs != 3 || history.Results[1].TimestampMs != 2 {
			t.Errorf("unexpected history %+v", history)
		}
	})

	t.Run("history bad limit", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/api/v1/sessions/abc/history?limit=0", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		rec, env := do(t, router, http.MethodGet, "/api/v1/sessions/nope", "")
		if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
			t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rec, env := do(t, router, http.MethodGet, "/api/v1/sessions/bad%20id", "")
		if rec.Code != http.StatusBadRequest || env.Error.Code != validation.ErrorCode {
			t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodDelete, "/api/v1/sessions/abc", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		rec, _ = do(t, router, http.MethodGet, "/api/v1/sessions/abc", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("after delete status = %d, want 404", rec.Code)
		}
	})
}

func TestSessions_StoreFailure(t *testing.T) {
	t.Parallel()

	sessions := newFakeSessions()
	sessions.err = errors.New("disk on fire")
	router := testRouter(NewHandler(&fakeEstimator{}, WithSessions(sessions)))

	rec, env := do(t, router, http.MethodGet, "/api/v1/sessions/abc", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(env.Error.Message, "disk on fire") {
		t.Error("store error text leaked to the client")
	}
}

func TestSessions_Disabled(t *testing.T) {
	t.Parallel()

	rec, env := do(t, testRouter(NewHandler(&fakeEstimator{})), http.MethodGet, "/api/v1/sessions/abc", "")
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		h := NewHandler(&fakeEstimator{}, WithVersion("1.2.3"))
		rec, env := do(t, testRouter(h), http.MethodGet, "/api/v1/health/live", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var status HealthStatus
		if err := json.Unmarshal(env.Data, &status); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if status.Status != "alive" || status.Version != "1.2.3" {
			t.Errorf("unexpected status %+v", status)
		}
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		h := NewHandler(&fakeEstimator{},
			WithHealthCheck("store", func(context.Context) error { return nil }),
		)
		rec, env := do(t, testRouter(h), http.MethodGet, "/api/v1/health/ready", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var status HealthStatus
		if err := json.Unmarshal(env.Data, &status); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if status.Status != "ready" || status.Checks["store"] != "ok" {
			t.Errorf("unexpected status %+v", status)
		}
	})

	t.Run("not ready", func(t *testing.T) {
		t.Parallel()
		h := NewHandler(&fakeEstimator{},
			WithHealthCheck("store", func(context.Context) error { return nil }),
			WithHealthCheck("geoip", func(context.Context) error { return errors.New("no providers available") }),
		)
		rec, env := do(t, testRouter(h), http.MethodGet, "/api/v1/health/ready", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		var status HealthStatus
		if err := json.Unmarshal(env.Data, &status); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if status.Checks["geoip"] != "no providers available" || status.Checks["store"] != "ok" {
			t.Errorf("unexpected checks %+v", status.Checks)
		}
	})

	t.Run("check timeout", func(t *testing.T) {
		t.Parallel()
		h := NewHandler(&fakeEstimator{},
			WithHealthCheck("slow", func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(10 * time.Second):
					return nil
				}
			}),
		)
		start := time.Now()
		rec, _ := do(t, testRouter(h), http.MethodGet, "/api/v1/health/ready", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
		if elapsed := time.Since(start); elapsed > readinessTimeout+time.Second {
			t.Errorf("readiness took %v", elapsed)
		}
	})
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := testRouter(NewHandler(&fakeEstimator{}))

	rec, env := do(t, router, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, env = do(t, router, http.MethodPut, "/api/v1/locate", "")
	if rec.Code != http.StatusMethodNotAllowed || env.Error == nil || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("wrong method: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ForwardedIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		trusted bool
		wantIP  string
	}{
		{"trusted proxy", true, "198.51.100.4"},
		{"untrusted proxy", false, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			est := &fakeEstimator{}
			router := NewRouter(NewHandler(est), RouterConfig{
				CORSOrigins:       []string{"*"},
				RateLimitDisabled: true,
				TrustForwardedIP:  tt.trusted,
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/locate", nil)
			req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
			router.ServeHTTP(httptest.NewRecorder(), req)

			if got := est.last().IP; got != tt.wantIP {
				t.Errorf("IP = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(&fakeEstimator{}), RouterConfig{
		CORSOrigins:       []string{"*"},
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})

	for i := 0; i < 2; i++ {
		if rec, _ := do(t, router, http.MethodGet, "/api/v1/locate/203.0.113.7", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec, env := do(t, router, http.MethodGet, "/api/v1/locate/203.0.113.7", "")
	if rec.Code != http.StatusTooManyRequests || env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// health stays reachable
	if rec, _ := do(t, router, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health rate limited: status = %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(&fakeEstimator{}), RouterConfig{
		CORSOrigins:       []string{"https://app.example.com"},
		RateLimitDisabled: true,
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/locate", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter(NewHandler(&fakeEstimator{})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected Prometheus exposition output")
	}
}
