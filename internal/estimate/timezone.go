// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import (
	"net/http"
	"strings"

	"github.com/tomtom215/vantage/internal/models"
)

// EstimateTimezone maps the client's declared timezone to a reference point
// and adds a bonus when the declared languages fit the timezone's region.
// The provider's timezone is not used; this signal must be independent of
// the IP estimate.
func EstimateTimezone(in *Input) models.SignalEstimate {
	est := models.SignalEstimate{
		Algorithm:    models.AlgorithmTimezoneLanguage,
		Location:     emptyLocation(models.AlgorithmTimezoneLanguage),
		AccuracyBand: models.AccuracyVeryBroad,
	}
	zone := strings.TrimSpace(in.metadata().Timezone)
	if zone == "" {
		return est
	}
	est.Location.Timezone = models.StringPtr(zone)

	confidence := 0
	if entry, exact, ok := lookupTimezone(zone); ok {
		est.Location.Country = entry.country
		est.Location.Region = entry.region
		est.Location.City = entry.city
		est.Location = est.Location.WithCoordinates(entry.lat, entry.lon)
		confidence = entry.confidence
		if exact {
			est.AccuracyBand = models.AccuracyRegional
			est.Description = "timezone " + entry.zone
		} else {
			confidence -= tzPartialPenalty
			est.AccuracyBand = models.AccuracyBroadRegional
			est.Description = "timezone city segment matches " + entry.zone
		}
	}

	var header http.Header
	if in != nil {
		header = in.Header
	}
	confidence += languageBonus(zone, declaredLanguages(in.metadata(), header))

	est.Confidence = models.ClampConfidence(confidence, TimezoneConfidenceCap)
	return est
}

// lookupTimezone finds zone exactly, then by its city segment.
func lookupTimezone(zone string) (entry tzEntry, exact, ok bool) {
	if i, found := tzExact[strings.ToLower(zone)]; found {
		return tzTable[i], true, true
	}
	if i, found := tzByCity[strings.ToLower(citySegment(zone))]; found {
		return tzTable[i], false, true
	}
	return tzEntry{}, false, false
}

// languageBonus scores declared languages against the zone's allow-list.
func languageBonus(zone string, languages []string) int {
	var allowed []string
	for prefix, list := range languageAllowList {
		if len(zone) >= len(prefix) && strings.EqualFold(zone[:len(prefix)], prefix) {
			allowed = list
			break
		}
	}
	if len(allowed) == 0 {
		return 0
	}

	bonus := 0
	for _, lang := range languages {
		if languageAllowed(lang, allowed) {
			bonus += languageMatchBonus
			if bonus >= languageBonusMax {
				return languageBonusMax
			}
		}
	}
	return bonus
}

// languageAllowed reports whether lang equals an allow-list tag, or an
// allow-list entry is lang's primary subtag.
func languageAllowed(lang string, allowed []string) bool {
	primary, _, _ := strings.Cut(lang, "-")
	for _, a := range allowed {
		if strings.EqualFold(a, lang) {
			return true
		}
		if !strings.Contains(a, "-") && strings.EqualFold(a, primary) {
			return true
		}
	}
	return false
}

// declaredLanguages merges metadata languages with Accept-Language tags,
// dropping duplicates and quality parameters.
func declaredLanguages(meta *models.ClientMetadata, h http.Header) []string {
	langs := meta.AllLanguages()
	seen := make(map[string]bool, len(langs))
	for _, l := range langs {
		seen[strings.ToLower(l)] = true
	}
	for _, part := range strings.Split(h.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(part, ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		langs = append(langs, tag)
	}
	return langs
}
