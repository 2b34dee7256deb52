// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import (
	"strings"

	"github.com/tomtom215/vantage/internal/cache"
)

// ispEntry maps an ISP name fragment to the region it mostly serves.
// Coordinates are a representative point for the region, usually the
// operator's main metro area.
type ispEntry struct {
	keyword string
	country string
	region  string
	lat     float64
	lon     float64
	bonus   int
}

// ispTable is ordered: when several keywords match, the earliest entry wins.
// Regional carriers come before multinational and hosting names.
var ispTable = []ispEntry{
	{"comcast", "United States", "Northeast US", 39.9526, -75.1652, 18},
	{"verizon", "United States", "East Coast US", 40.7128, -74.0060, 18},
	{"at&t", "United States", "Southern US", 32.7767, -96.7970, 18},
	{"charter communications", "United States", "Midwest US", 41.8781, -87.6298, 17},
	{"spectrum", "United States", "Midwest US", 41.8781, -87.6298, 17},
	{"cox communications", "United States", "Southwest US", 33.7490, -84.3880, 17},
	{"centurylink", "United States", "Central US", 39.7392, -104.9903, 16},
	{"t-mobile usa", "United States", "Pacific Northwest", 47.6062, -122.3321, 16},
	{"rogers", "Canada", "Ontario", 43.6532, -79.3832, 18},
	{"bell canada", "Canada", "Quebec", 45.5017, -73.5673, 18},
	{"shaw communications", "Canada", "Alberta", 51.0447, -114.0719, 18},
	{"telmex", "Mexico", "Mexico City", 19.4326, -99.1332, 18},
	{"claro", "Brazil", "Sao Paulo", -23.5505, -46.6333, 15},
	{"british telecommunications", "United Kingdom", "England", 51.5074, -0.1278, 20},
	{"virgin media", "United Kingdom", "England", 51.5074, -0.1278, 20},
	{"sky broadband", "United Kingdom", "England", 51.5074, -0.1278, 19},
	{"deutsche telekom", "Germany", "North Rhine-Westphalia", 50.7374, 7.0982, 20},
	{"orange", "France", "Ile-de-France", 48.8566, 2.3522, 17},
	{"free sas", "France", "Ile-de-France", 48.8566, 2.3522, 19},
	{"telefonica", "Spain", "Madrid", 40.4168, -3.7038, 17},
	{"telecom italia", "Italy", "Lazio", 41.9028, 12.4964, 19},
	{"kpn", "Netherlands", "North Holland", 52.3676, 4.9041, 19},
	{"swisscom", "Switzerland", "Bern", 46.9480, 7.4474, 20},
	{"telia", "Sweden", "Stockholm", 59.3293, 18.0686, 17},
	{"rostelecom", "Russia", "Moscow", 55.7558, 37.6173, 18},
	{"ntt", "Japan", "Kanto", 35.6762, 139.6503, 18},
	{"kddi", "Japan", "Kanto", 35.6762, 139.6503, 19},
	{"softbank", "Japan", "Kanto", 35.6762, 139.6503, 18},
	{"korea telecom", "South Korea", "Seoul", 37.5665, 126.9780, 20},
	{"sk broadband", "South Korea", "Seoul", 37.5665, 126.9780, 20},
	{"china telecom", "China", "Beijing", 39.9042, 116.4074, 16},
	{"china unicom", "China", "Beijing", 39.9042, 116.4074, 16},
	{"china mobile", "China", "Beijing", 39.9042, 116.4074, 16},
	{"reliance jio", "India", "Maharashtra", 19.0760, 72.8777, 17},
	{"bharti airtel", "India", "Delhi", 28.6139, 77.2090, 17},
	{"singtel", "Singapore", "Singapore", 1.3521, 103.8198, 20},
	{"telstra", "Australia", "New South Wales", -33.8688, 151.2093, 19},
	{"optus", "Australia", "New South Wales", -33.8688, 151.2093, 19},
	{"spark new zealand", "New Zealand", "Auckland", -36.8485, 174.7633, 20},
	{"vodafone", "United Kingdom", "Europe", 51.5074, -0.1278, 15},
	{"google", "United States", "California", 37.4220, -122.0841, 15},
	{"amazon", "United States", "Washington", 47.6062, -122.3321, 15},
	{"microsoft", "United States", "Washington", 47.6740, -122.1215, 15},
	{"cloudflare", "United States", "California", 37.7749, -122.4194, 15},
	{"ovh", "France", "Hauts-de-France", 50.6942, 3.1746, 15},
	{"hetzner", "Germany", "Bavaria", 49.1147, 10.7531, 15},
}

var ispMatcher = newTableMatcher(len(ispTable), func(i int) string { return ispTable[i].keyword })

// cdnHeaders indicate the request passed through a CDN or reverse proxy.
// Each present header adds cdnHeaderBonus, up to cdnHeaderMax.
var cdnHeaders = []string{
	"Cf-Ray",
	"Cf-Ipcountry",
	"X-Amz-Cf-Id",
	"X-Amz-Cf-Pop",
	"Fastly-Client-Ip",
	"Akamai-Origin-Hop",
	"X-Akamai-Edge-Ip",
	"X-Azure-Ref",
	"X-Served-By",
	"Via",
	"X-Forwarded-For",
	"X-Real-Ip",
}

const (
	cdnHeaderBonus = 5
	cdnHeaderMax   = 15
)

// tzEntry is a reference point for an IANA timezone.
type tzEntry struct {
	zone       string
	city       string
	region     string
	country    string
	lat        float64
	lon        float64
	confidence int
}

// tzTable: 25 for zones that pin a single metro or small country, 20 for
// zones spanning a large area.
var tzTable = []tzEntry{
	{"America/New_York", "New York", "New York", "United States", 40.7128, -74.0060, 20},
	{"America/Chicago", "Chicago", "Illinois", "United States", 41.8781, -87.6298, 20},
	{"America/Denver", "Denver", "Colorado", "United States", 39.7392, -104.9903, 20},
	{"America/Phoenix", "Phoenix", "Arizona", "United States", 33.4484, -112.0740, 25},
	{"America/Los_Angeles", "Los Angeles", "California", "United States", 34.0522, -118.2437, 20},
	{"America/Anchorage", "Anchorage", "Alaska", "United States", 61.2181, -149.9003, 25},
	{"Pacific/Honolulu", "Honolulu", "Hawaii", "United States", 21.3069, -157.8583, 25},
	{"America/Toronto", "Toronto", "Ontario", "Canada", 43.6532, -79.3832, 20},
	{"America/Vancouver", "Vancouver", "British Columbia", "Canada", 49.2827, -123.1207, 25},
	{"America/Mexico_City", "Mexico City", "Mexico City", "Mexico", 19.4326, -99.1332, 20},
	{"America/Sao_Paulo", "Sao Paulo", "Sao Paulo", "Brazil", -23.5505, -46.6333, 20},
	{"America/Buenos_Aires", "Buenos Aires", "Buenos Aires", "Argentina", -34.6037, -58.3816, 20},
	{"America/Bogota", "Bogota", "Bogota", "Colombia", 4.7110, -74.0721, 25},
	{"America/Lima", "Lima", "Lima", "Peru", -12.0464, -77.0428, 25},
	{"America/Santiago", "Santiago", "Santiago Metropolitan", "Chile", -33.4489, -70.6693, 25},
	{"Europe/London", "London", "England", "United Kingdom", 51.5074, -0.1278, 25},
	{"Europe/Dublin", "Dublin", "Leinster", "Ireland", 53.3498, -6.2603, 25},
	{"Europe/Lisbon", "Lisbon", "Lisbon", "Portugal", 38.7223, -9.1393, 25},
	{"Europe/Paris", "Paris", "Ile-de-France", "France", 48.8566, 2.3522, 25},
	{"Europe/Madrid", "Madrid", "Madrid", "Spain", 40.4168, -3.7038, 25},
	{"Europe/Berlin", "Berlin", "Berlin", "Germany", 52.5200, 13.4050, 25},
	{"Europe/Amsterdam", "Amsterdam", "North Holland", "Netherlands", 52.3676, 4.9041, 25},
	{"Europe/Brussels", "Brussels", "Brussels", "Belgium", 50.8503, 4.3517, 25},
	{"Europe/Zurich", "Zurich", "Zurich", "Switzerland", 47.3769, 8.5417, 25},
	{"Europe/Rome", "Rome", "Lazio", "Italy", 41.9028, 12.4964, 25},
	{"Europe/Vienna", "Vienna", "Vienna", "Austria", 48.2082, 16.3738, 25},
	{"Europe/Stockholm", "Stockholm", "Stockholm", "Sweden", 59.3293, 18.0686, 25},
	{"Europe/Oslo", "Oslo", "Oslo", "Norway", 59.9139, 10.7522, 25},
	{"Europe/Copenhagen", "Copenhagen", "Capital Region", "Denmark", 55.6761, 12.5683, 25},
	{"Europe/Helsinki", "Helsinki", "Uusimaa", "Finland", 60.1699, 24.9384, 25},
	{"Europe/Warsaw", "Warsaw", "Masovia", "Poland", 52.2297, 21.0122, 25},
	{"Europe/Prague", "Prague", "Prague", "Czechia", 50.0755, 14.4378, 25},
	{"Europe/Athens", "Athens", "Attica", "Greece", 37.9838, 23.7275, 25},
	{"Europe/Istanbul", "Istanbul", "Istanbul", "Turkey", 41.0082, 28.9784, 20},
	{"Europe/Kiev", "Kyiv", "Kyiv", "Ukraine", 50.4501, 30.5234, 20},
	{"Europe/Moscow", "Moscow", "Moscow", "Russia", 55.7558, 37.6173, 20},
	{"Africa/Cairo", "Cairo", "Cairo", "Egypt", 30.0444, 31.2357, 20},
	{"Africa/Lagos", "Lagos", "Lagos", "Nigeria", 6.5244, 3.3792, 20},
	{"Africa/Nairobi", "Nairobi", "Nairobi", "Kenya", -1.2921, 36.8219, 20},
	{"Africa/Johannesburg", "Johannesburg", "Gauteng", "South Africa", -26.2041, 28.0473, 20},
	{"Asia/Dubai", "Dubai", "Dubai", "United Arab Emirates", 25.2048, 55.2708, 25},
	{"Asia/Kolkata", "Mumbai", "Maharashtra", "India", 19.0760, 72.8777, 20},
	{"Asia/Bangkok", "Bangkok", "Bangkok", "Thailand", 13.7563, 100.5018, 20},
	{"Asia/Jakarta", "Jakarta", "Jakarta", "Indonesia", -6.2088, 106.8456, 20},
	{"Asia/Singapore", "Singapore", "Singapore", "Singapore", 1.3521, 103.8198, 25},
	{"Asia/Hong_Kong", "Hong Kong", "Hong Kong", "Hong Kong", 22.3193, 114.1694, 25},
	{"Asia/Shanghai", "Shanghai", "Shanghai", "China", 31.2304, 121.4737, 20},
	{"Asia/Taipei", "Taipei", "Taipei", "Taiwan", 25.0330, 121.5654, 25},
	{"Asia/Seoul", "Seoul", "Seoul", "South Korea", 37.5665, 126.9780, 25},
	{"Asia/Tokyo", "Tokyo", "Tokyo", "Japan", 35.6762, 139.6503, 25},
	{"Australia/Sydney", "Sydney", "New South Wales", "Australia", -33.8688, 151.2093, 25},
	{"Australia/Melbourne", "Melbourne", "Victoria", "Australia", -37.8136, 144.9631, 25},
	{"Australia/Perth", "Perth", "Western Australia", "Australia", -31.9505, 115.8605, 25},
	{"Pacific/Auckland", "Auckland", "Auckland", "New Zealand", -36.8485, 174.7633, 25},
}

// tzExact indexes tzTable by lower-cased zone name.
var tzExact = func() map[string]int {
	m := make(map[string]int, len(tzTable))
	for i, e := range tzTable {
		m[strings.ToLower(e.zone)] = i
	}
	return m
}()

// tzByCity indexes tzTable by lower-cased final zone segment ("buenos_aires").
// The first entry wins when two zones share a city segment.
var tzByCity = func() map[string]int {
	m := make(map[string]int, len(tzTable))
	for i, e := range tzTable {
		key := strings.ToLower(citySegment(e.zone))
		if _, ok := m[key]; !ok {
			m[key] = i
		}
	}
	return m
}()

// tzPartialPenalty is subtracted from the table confidence on a city-segment match.
const tzPartialPenalty = 5

// languageAllowList holds the languages plausible for a timezone prefix.
// A bare primary subtag ("es") matches any regional variant ("es-MX").
var languageAllowList = map[string][]string{
	"America/":   {"en-US", "es", "fr-CA", "pt-BR", "en-CA"},
	"Europe/":    {"en-GB", "de", "fr", "es", "it", "nl", "pl", "pt-PT", "sv", "da", "nb", "fi", "cs", "el", "ru", "uk", "tr"},
	"Asia/":      {"zh", "ja", "ko", "hi", "en-IN", "th", "id", "vi", "ar", "ms"},
	"Africa/":    {"en", "fr", "ar", "sw", "pt", "af", "zu"},
	"Australia/": {"en-AU", "en"},
	"Pacific/":   {"en-NZ", "en-US", "mi"},
}

const (
	languageMatchBonus = 5
	languageBonusMax   = 10
)

// newTableMatcher builds a case-insensitive keyword automaton whose match
// data is the table row index.
func newTableMatcher(n int, keyword func(int) string) *cache.AhoCorasick {
	patterns := make([]cache.Pattern, n)
	for i := 0; i < n; i++ {
		patterns[i] = cache.Pattern{Text: keyword(i), Data: i}
	}
	return cache.NewAhoCorasick(patterns)
}

// citySegment returns the final "/"-separated segment of a zone name.
func citySegment(zone string) string {
	if idx := strings.LastIndexByte(zone, '/'); idx != -1 {
		return zone[idx+1:]
	}
	return zone
}
