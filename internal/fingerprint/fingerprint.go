// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package fingerprint derives a deterministic digest from declared and
// observed client attributes.
//
// The confidence and uniqueness scores are entropy heuristics based on how
// many attributes are present and how many characters they hold. They do not measure
// real-world uniqueness: two clients with identical common browsers will
// share a hash, and the score does not know how common any value is.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/vantage/internal/models"
)

// Absent is substituted for every missing component.
const Absent = "unknown"

// Delimiter joins components before hashing. It is not expected to occur
// in any header or declared value.
const Delimiter = "|~|"

// Component names in hashing order. The order is part of the hash format.
const (
	ComponentUserAgent           = "user_agent"
	ComponentScreenResolution    = "screen_resolution"
	ComponentTimezone            = "timezone"
	ComponentLanguage            = "language"
	ComponentColorDepth          = "color_depth"
	ComponentPixelRatio          = "pixel_ratio"
	ComponentHardwareConcurrency = "hardware_concurrency"
	ComponentDeviceMemory        = "device_memory"
	ComponentAcceptEncoding      = "accept_encoding"
	ComponentAcceptLanguage      = "accept_language"
)

var componentOrder = []string{
	ComponentUserAgent,
	ComponentScreenResolution,
	ComponentTimezone,
	ComponentLanguage,
	ComponentColorDepth,
	ComponentPixelRatio,
	ComponentHardwareConcurrency,
	ComponentDeviceMemory,
	ComponentAcceptEncoding,
	ComponentAcceptLanguage,
}

// Components returns the ten raw component values in hashing order, with
// Absent for anything missing.
func Components(meta *models.ClientMetadata, h http.Header) []string {
	if meta == nil {
		meta = &models.ClientMetadata{}
	}

	language := meta.Language
	if strings.TrimSpace(language) == "" {
		language = primaryAcceptLanguage(h.Get("Accept-Language"))
	}

	values := []string{
		h.Get("User-Agent"),
		meta.ScreenResolution,
		meta.Timezone,
		language,
		formatInt(meta.ColorDepth),
		formatFloat(meta.PixelRatio),
		formatInt(meta.HardwareConcurrency),
		formatFloat(meta.DeviceMemory),
		h.Get("Accept-Encoding"),
		h.Get("Accept-Language"),
	}
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			v = Absent
		}
		values[i] = v
	}
	return values
}

// Generate computes the fingerprint of the given client attributes.
func Generate(meta *models.ClientMetadata, h http.Header) models.Fingerprint {
	values := Components(meta, h)

	sum := sha256.Sum256([]byte(strings.Join(values, Delimiter)))

	present := 0
	entropy := 0.0
	flags := make(map[string]bool, len(values))
	for i, v := range values {
		ok := v != Absent
		flags[componentOrder[i]] = ok
		if ok {
			present++
			entropy += 0.1 * float64(utf8.RuneCountInString(v))
		}
	}

	return models.Fingerprint{
		Hash:            hex.EncodeToString(sum[:]),
		Components:      flags,
		ConfidencePct:   int(math.Round(100 * float64(present) / float64(len(values)))),
		UniquenessScore: int(math.Min(100, math.Round(entropy))),
	}
}

// primaryAcceptLanguage returns the first tag of an Accept-Language value.
func primaryAcceptLanguage(v string) string {
	first, _, _ := strings.Cut(v, ",")
	tag, _, _ := strings.Cut(first, ";")
	tag = strings.TrimSpace(tag)
	if tag == "*" {
		return ""
	}
	return tag
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
