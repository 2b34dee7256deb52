// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package geoip

import (
	"net"
	"strings"
)

// privateNetworks are never sent to a provider.
var privateNetworks = mustParseCIDRs(
	"10.0.0.0/8",     // RFC 1918
	"172.16.0.0/12",  // RFC 1918
	"192.168.0.0/16", // RFC 1918
	"127.0.0.0/8",    // loopback
	"169.254.0.0/16", // link-local
	"100.64.0.0/10",  // RFC 6598 carrier-grade NAT
	"::1/128",        // IPv6 loopback
	"fc00::/7",       // IPv6 unique local
	"fe80::/10",      // IPv6 link-local
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("geoip: bad built-in CIDR " + cidr)
		}
		nets = append(nets, n)
	}
	return nets
}

// IsPrivateIP reports whether ipStr is a loopback, private, link-local or
// shared-address-space literal. Unparseable input is not private.
func IsPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, n := range privateNetworks {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// IsValidPublicIP reports whether ipStr is a routable address worth a lookup.
func IsValidPublicIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsUnspecified() || ip.IsMulticast() {
		return false
	}
	return !IsPrivateIP(ipStr)
}

// NormalizeIP strips whitespace, IPv6 brackets, a port and an IPv6 zone from
// an address as it appears in RemoteAddr or a forwarding header.
//
//	"203.0.113.9:443"  -> "203.0.113.9"
//	"[2001:db8::1]:80" -> "2001:db8::1"
//	"fe80::1%eth0"     -> "fe80::1"
func NormalizeIP(addr string) string {
	addr = strings.TrimSpace(addr)
	if strings.HasPrefix(addr, "[") {
		if idx := strings.LastIndex(addr, "]:"); idx != -1 {
			addr = addr[1:idx]
		} else {
			addr = strings.Trim(addr, "[]")
		}
	} else if strings.Count(addr, ":") == 1 {
		// host:port; bare IPv6 always has two or more colons
		addr = addr[:strings.LastIndex(addr, ":")]
	}
	if idx := strings.IndexByte(addr, '%'); idx != -1 {
		addr = addr[:idx]
	}
	return addr
}
