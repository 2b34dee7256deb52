// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const (
	userAgent = "vantage/1.0 (+https://github.com/tomtom215/vantage)"

	// maxResponseBytes bounds what a misbehaving provider can make us read.
	maxResponseBytes = 64 << 10

	// defaultHTTPTimeout is a backstop; the aggregator's per-call context
	// deadline is normally shorter.
	defaultHTTPTimeout = 10 * time.Second
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

type requestConfig struct {
	mutators    []func(*http.Request)
	decodeError func(status int, body []byte) error
}

type requestOption func(*requestConfig)

func withBasicAuth(user, pass string) requestOption {
	return func(c *requestConfig) {
		c.mutators = append(c.mutators, func(r *http.Request) { r.SetBasicAuth(user, pass) })
	}
}

// withErrorDecoder lets a provider interpret its own non-2xx error bodies.
// Returning nil falls through to the generic status mapping.
func withErrorDecoder(fn func(status int, body []byte) error) requestOption {
	return func(c *requestConfig) { c.decodeError = fn }
}

// getJSON performs a GET and decodes a JSON body into out. 429 maps to
// ErrRateLimited and 404 to ErrNoResult; other non-2xx statuses are errors.
func getJSON(ctx context.Context, client *http.Client, provider, url string, out any, opts ...requestOption) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", provider, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	var cfg requestConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, mutate := range cfg.mutators {
		mutate(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", provider, err)
	}

	failed := resp.StatusCode < 200 || resp.StatusCode > 299
	if failed && cfg.decodeError != nil {
		if err := cfg.decodeError(resp.StatusCode, body); err != nil {
			return err
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w (status 429)", provider, ErrRateLimited)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w (status 404)", provider, ErrNoResult)
	case failed:
		return fmt.Errorf("%s: returned status %d", provider, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: %v", provider, ErrMalformedResponse, err)
	}
	return nil
}
