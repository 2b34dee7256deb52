// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/tomtom215/vantage/internal/api"
	"github.com/tomtom215/vantage/internal/models"
	"github.com/tomtom215/vantage/internal/pipeline"
	"github.com/tomtom215/vantage/internal/store"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// berlinLocator answers every lookup with the same record.
type berlinLocator struct{}

func (berlinLocator) Locate(context.Context, string) models.ScoredRecord {
	tz := "Europe/Berlin"
	return models.ScoredRecord{
		Record: models.LocationRecord{
			Country:  "Germany",
			Region:   "Berlin",
			City:     "Berlin",
			Timezone: &tz,
			Source:   "test",
		}.WithCoordinates(52.52, 13.405),
		Score: 80,
	}
}

func testServer(t *testing.T, opts ...api.HandlerOption) (*httptest.Server, *store.Badger) {
	t.Helper()

	sessions, err := store.Open(store.DefaultConfig())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { sessions.Close() })

	p := pipeline.New(berlinLocator{}, pipeline.WithSessions(sessions))
	opts = append([]api.HandlerOption{api.WithSessions(sessions), api.WithVersion("test")}, opts...)
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(p, opts...), api.RouterConfig{
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	}))
	t.Cleanup(srv.Close)
	return srv, sessions
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Metadata(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Use != "vantagectl" {
		t.Errorf("Use = %q", cmd.Use)
	}
	for _, name := range []string{"locate", "session", "distance", "health"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if cmd.PersistentFlags().Lookup("server") == nil || cmd.PersistentFlags().Lookup("timeout") == nil {
		t.Error("expected --server and --timeout persistent flags")
	}
}

func TestRootCmd_ServerFromEnv(t *testing.T) {
	t.Setenv(serverEnvVar, "http://vantage.internal:9000")

	cmd := newRootCmd()
	if got := cmd.PersistentFlags().Lookup("server").DefValue; got != "http://vantage.internal:9000" {
		t.Errorf("server default = %q", got)
	}
}

func TestLocateCmd(t *testing.T) {
	srv, _ := testServer(t)

	out, err := run(t, "locate", "203.0.113.7", "--server", srv.URL, "--timezone", "Europe/Berlin")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	for _, want := range []string{"203.0.113.7", "Berlin, Berlin, Germany", "(52.5200, 13.4050)", "score 80", "Stealth:", "ip_geolocation"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLocateCmd_Precise(t *testing.T) {
	srv, _ := testServer(t)

	out, err := run(t, "locate", "203.0.113.7", "--precise", "--server", srv.URL)
	if err != nil {
		t.Fatalf("locate --precise: %v", err)
	}
	if !strings.Contains(out, "Europe/Berlin") || strings.Contains(out, "Stealth:") {
		t.Errorf("unexpected precise output:\n%s", out)
	}

	out, err = run(t, "locate", "203.0.113.7", "--precise", "--json", "--server", srv.URL)
	if err != nil {
		t.Fatalf("locate --precise --json: %v", err)
	}
	if !strings.Contains(out, `"score": 80`) {
		t.Errorf("expected indented JSON payload:\n%s", out)
	}
}

func TestLocateCmd_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"not an IP", []string{"locate", "example.com"}},
		{"precise without IP", []string{"locate", "--precise"}},
		{"too many args", []string{"locate", "1.1.1.1", "8.8.8.8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--server", "http://127.0.0.1:1")
			if _, err := run(t, args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSessionCmd(t *testing.T) {
	srv, sessions := testServer(t)

	if _, err := run(t, "session", "nope", "--server", srv.URL); err == nil {
		t.Fatal("expected not-found error")
	} else {
		var apiErr *apiError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
			t.Errorf("error = %v, want a 404 apiError", err)
		}
	}

	result := &models.EstimationResult{
		IP:          "203.0.113.7",
		SessionID:   "checkout-42",
		TimestampMs: 1_700_000_000_000,
		Precise:     berlinLocator{}.Locate(context.Background(), ""),
	}
	if err := sessions.Save(context.Background(), result); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := run(t, "session", "checkout-42", "--server", srv.URL)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if !strings.Contains(out, "checkout-42") || !strings.Contains(out, "Berlin") {
		t.Errorf("unexpected session output:\n%s", out)
	}

	out, err = run(t, "session", "checkout-42", "--history", "5", "--server", srv.URL)
	if err != nil {
		t.Fatalf("session --history: %v", err)
	}
	if !strings.Contains(out, "(1 results)") || !strings.Contains(out, "2023-11-14T22:13:20Z") {
		t.Errorf("unexpected history output:\n%s", out)
	}

	if _, err := run(t, "session", "checkout-42", "--delete", "--server", srv.URL); err != nil {
		t.Fatalf("session --delete: %v", err)
	}
	if _, err := run(t, "session", "checkout-42", "--server", srv.URL); err == nil {
		t.Error("session should be gone after --delete")
	}
}

func TestDistanceCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "berlin to paris in an hour",
			args: []string{"52.52", "13.405", "48.8566", "2.3522", "--seconds", "3600"},
			want: []string{"Distance:", "km", "Speed:", "high_speed", "Significant: true"},
		},
		{
			name: "same point",
			args: []string{"10", "10", "10", "10"},
			want: []string{"0 m", "Significant: false"},
		},
		{
			name:    "not a number",
			args:    []string{"north", "10", "10", "10"},
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			args:    []string{"91", "0", "0", "0"},
			wantErr: true,
		},
		{
			name:    "negative seconds",
			args:    []string{"0", "0", "1", "1", "--seconds", "-5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, append([]string{"distance"}, tt.args...)...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("distance: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestHealthCmd(t *testing.T) {
	srv, _ := testServer(t, api.WithHealthCheck("store", func(context.Context) error { return nil }))

	out, err := run(t, "health", "--server", srv.URL)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "ready") || !strings.Contains(out, "✓ store") {
		t.Errorf("unexpected health output:\n%s", out)
	}

	failing, _ := testServer(t, api.WithHealthCheck("geoip", func(context.Context) error {
		return errors.New("no GeoIP provider available")
	}))
	out, err = run(t, "health", "--server", failing.URL)
	if err == nil {
		t.Fatal("expected error for a not-ready server")
	}
	if !strings.Contains(out, "✗ geoip: no GeoIP provider available") {
		t.Errorf("unexpected health output:\n%s", out)
	}
}

func TestAPIClient_NonJSONResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newAPIClient(srv.URL+"/", 0).call(context.Background(), http.MethodGet, "/api/v1/health/ready", nil)
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("error = %v, want unexpected response error", err)
	}
}
