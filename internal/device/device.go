// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package device classifies user-agent strings into device type, browser
// family and OS family by keyword. It is intentionally coarse: families,
// not versions.
package device

import (
	"strings"

	"github.com/tomtom215/vantage/internal/cache"
	"github.com/tomtom215/vantage/internal/models"
)

// botPatterns mark automated clients.
var botPatterns = []string{
	"curl", "wget", "python", "bot", "crawler", "spider",
	"headless", "phantom", "selenium", "puppeteer",
	"slurp", "go-http-client", "okhttp", "java/", "libwww", "httpclient",
}

type family struct {
	keyword string
	name    string
}

// Order matters: the first matching row wins, so UAs that embed another
// family's token (Edge and Opera embed "Chrome", Chrome embeds "Safari")
// must come before it.
var browserFamilies = []family{
	{"edg/", "Edge"},
	{"edge/", "Edge"},
	{"edga/", "Edge"},
	{"edgios/", "Edge"},
	{"opr/", "Opera"},
	{"opera", "Opera"},
	{"samsungbrowser", "Samsung Internet"},
	{"yabrowser", "Yandex"},
	{"vivaldi", "Vivaldi"},
	{"firefox", "Firefox"},
	{"fxios", "Firefox"},
	{"crios", "Chrome"},
	{"chromium", "Chromium"},
	{"chrome", "Chrome"},
	{"msie", "Internet Explorer"},
	{"trident/", "Internet Explorer"},
	{"safari", "Safari"},
}

// iOS and Android come first: their UAs also mention "Mac OS X" and "Linux".
var osFamilies = []family{
	{"iphone", "iOS"},
	{"ipad", "iOS"},
	{"ipod", "iOS"},
	{"android", "Android"},
	{"cros ", "ChromeOS"},
	{"windows", "Windows"},
	{"macintosh", "macOS"},
	{"mac os x", "macOS"},
	{"ubuntu", "Linux"},
	{"fedora", "Linux"},
	{"debian", "Linux"},
	{"linux", "Linux"},
	{"tizen", "Tizen"},
	{"webos", "webOS"},
}

var (
	botMatcher     = cache.NewAhoCorasickFromStrings(botPatterns, models.DeviceBot)
	browserMatcher = newFamilyMatcher(browserFamilies)
	osMatcher      = newFamilyMatcher(osFamilies)
	tabletMatcher  = cache.NewAhoCorasickFromStrings([]string{"ipad", "tablet", "kindle", "silk/", "playbook"}, models.DeviceTablet)
	mobileMatcher  = cache.NewAhoCorasickFromStrings([]string{"mobi", "iphone", "ipod", "android", "windows phone"}, models.DeviceMobile)
)

func newFamilyMatcher(families []family) *cache.AhoCorasick {
	patterns := make([]cache.Pattern, len(families))
	for i, f := range families {
		patterns[i] = cache.Pattern{Text: f.keyword, Data: f.name}
	}
	return cache.NewAhoCorasick(patterns)
}

// Classify parses a user-agent string. An empty string yields an unknown
// device with unknown browser and OS.
func Classify(userAgent string) models.DeviceInfo {
	ua := strings.TrimSpace(userAgent)
	info := models.DeviceInfo{
		DeviceType: models.DeviceUnknown,
		Browser:    models.Unknown,
		OS:         models.Unknown,
	}
	if ua == "" {
		return info
	}

	info.Browser = familyOf(browserMatcher, ua)
	info.OS = familyOf(osMatcher, ua)

	if botMatcher.Contains(ua) {
		info.IsBot = true
		info.DeviceType = models.DeviceBot
		return info
	}

	switch {
	case tabletMatcher.Contains(ua):
		info.DeviceType = models.DeviceTablet
	case info.OS == "Android" && !strings.Contains(strings.ToLower(ua), "mobile"):
		// Android tablets omit the "Mobile" token
		info.DeviceType = models.DeviceTablet
	case mobileMatcher.Contains(ua):
		info.DeviceType = models.DeviceMobile
	case info.OS == "Windows" || info.OS == "macOS" || info.OS == "Linux" || info.OS == "ChromeOS":
		info.DeviceType = models.DeviceDesktop
	}
	return info
}

// IsBot reports whether userAgent matches a known automation pattern.
func IsBot(userAgent string) bool {
	return botMatcher.Contains(userAgent)
}

func familyOf(m *cache.AhoCorasick, ua string) string {
	if match, ok := m.First(ua); ok {
		return match.Data.(string)
	}
	return models.Unknown
}
