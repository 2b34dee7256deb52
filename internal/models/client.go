// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package models

import "strings"

// ClientMetadata holds optional attributes declared by the client (usually
// gathered by a small script on the page). Every field may be absent.
type ClientMetadata struct {
	ScreenResolution    string   `json:"screen_resolution,omitempty" validate:"omitempty,max=32"`
	Timezone            string   `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Language            string   `json:"language,omitempty" validate:"omitempty,max=35"`
	Languages           []string `json:"languages,omitempty" validate:"omitempty,max=20,dive,max=35"`
	ColorDepth          *int     `json:"color_depth,omitempty" validate:"omitempty,gte=1,lte=64"`
	PixelRatio          *float64 `json:"pixel_ratio,omitempty" validate:"omitempty,gt=0,lte=16"`
	HardwareConcurrency *int     `json:"hardware_concurrency,omitempty" validate:"omitempty,gte=1,lte=1024"`
	DeviceMemory        *float64 `json:"device_memory,omitempty" validate:"omitempty,gt=0,lte=1024"`
	Downlink            *float64 `json:"downlink,omitempty" validate:"omitempty,gte=0"`
	RTT                 *int     `json:"rtt,omitempty" validate:"omitempty,gte=0"`
	EffectiveType       string   `json:"effective_type,omitempty" validate:"omitempty,oneof=slow-2g 2g 3g 4g"`
	Platform            string   `json:"platform,omitempty" validate:"omitempty,max=64"`
}

// AllLanguages returns the declared primary language followed by the declared
// language list, without duplicates and in declaration order.
func (m *ClientMetadata) AllLanguages() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]bool, len(m.Languages)+1)
	out := make([]string, 0, len(m.Languages)+1)
	add := func(l string) {
		l = strings.TrimSpace(l)
		if l == "" || seen[strings.ToLower(l)] {
			return
		}
		seen[strings.ToLower(l)] = true
		out = append(out, l)
	}
	add(m.Language)
	for _, l := range m.Languages {
		add(l)
	}
	return out
}

// DeviceType classifies the client device.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceBot     DeviceType = "bot"
	DeviceUnknown DeviceType = "unknown"
)

// DeviceInfo is the classification of a user-agent string.
type DeviceInfo struct {
	DeviceType DeviceType `json:"device_type"`
	Browser    string     `json:"browser"`
	OS         string     `json:"os"`
	IsBot      bool       `json:"is_bot"`
}

// HasBrowserPattern reports whether a known browser family was recognised.
func (d *DeviceInfo) HasBrowserPattern() bool {
	return d != nil && IsKnown(d.Browser)
}

// Fingerprint is a deterministic digest of declared and observed client attributes.
// It is a best-effort session identifier, not a uniqueness guarantee.
type Fingerprint struct {
	Hash            string          `json:"hash"`
	Components      map[string]bool `json:"components"`
	ConfidencePct   int             `json:"confidence_pct"`
	UniquenessScore int             `json:"uniqueness_score"`
}

// NetworkHints are heuristic observations about the connection path.
// They are informational and never feed into confidence values.
type NetworkHints struct {
	Heuristic         bool     `json:"heuristic"`
	PrivateAddress    bool     `json:"private_address"`
	ProxyHeaders      []string `json:"proxy_headers,omitempty"`
	ForwardedHops     int      `json:"forwarded_hops"`
	HostingProvider   bool     `json:"hosting_provider"`
	PossibleAnonymity bool     `json:"possible_anonymity"`
}
