// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package estimate

import (
	"net/http"
	"strings"

	"github.com/tomtom215/vantage/internal/cache"
	"github.com/tomtom215/vantage/internal/geoip"
	"github.com/tomtom215/vantage/internal/models"
)

// proxyHeaders are request headers added by forwarding proxies.
var proxyHeaders = []string{
	"Forwarded",
	"Via",
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
	"X-Real-Ip",
	"X-Proxy-Id",
}

var hostingKeywords = cache.NewAhoCorasickFromStrings([]string{
	"hosting", "datacenter", "data center", "colocation", "server",
	"amazon", "aws", "google cloud", "microsoft azure", "digitalocean",
	"linode", "akamai", "vultr", "ovh", "hetzner", "leaseweb", "choopa",
	"contabo", "scaleway", "oracle cloud", "alibaba",
}, "hosting")

var anonymityKeywords = cache.NewAhoCorasickFromStrings([]string{
	"vpn", "proxy", "tor exit", "anonymous", "mullvad", "nordvpn",
	"expressvpn", "private internet access", "protonvpn", "surfshark",
	"ipvanish", "cyberghost", "m247", "datacamp",
}, "anonymity")

// Hints collects heuristic observations about the connection path. A
// keyword match is a hint, not a detection: residential VPN exits and
// plain corporate proxies look alike here.
func Hints(ip string, h http.Header, record *models.LocationRecord) models.NetworkHints {
	hints := models.NetworkHints{
		Heuristic:      true,
		PrivateAddress: geoip.IsPrivateIP(geoip.NormalizeIP(ip)),
		ForwardedHops:  forwardedHops(h),
	}

	for _, name := range proxyHeaders {
		if h.Get(name) != "" {
			hints.ProxyHeaders = append(hints.ProxyHeaders, name)
		}
	}

	network := ""
	if record != nil {
		network = record.NetworkName()
		if record.Organization != nil && *record.Organization != network {
			network += " " + *record.Organization
		}
	}
	hints.HostingProvider = hostingKeywords.Contains(network)

	hints.PossibleAnonymity = hints.HostingProvider ||
		anonymityKeywords.Contains(network) ||
		h.Get("Via") != "" ||
		hints.ForwardedHops > 1
	return hints
}

// forwardedHops counts the addresses in X-Forwarded-For and the elements of
// the standard Forwarded header, whichever is larger.
func forwardedHops(h http.Header) int {
	count := func(values []string) int {
		n := 0
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if strings.TrimSpace(part) != "" {
					n++
				}
			}
		}
		return n
	}
	xff := count(h.Values("X-Forwarded-For"))
	fwd := count(h.Values("Forwarded"))
	if fwd > xff {
		return fwd
	}
	return xff
}
