package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxyHeaders are consulted in order when the caller trusts its proxy.
// X-Forwarded-For only contributes its left-most hop.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP resolves the address a request originated from. With trustProxy
// set, the proxy headers win over RemoteAddr. Only enable it when the
// listener is reachable solely through a trusted tunnel such as cloudflared.
//
// Addresses are returned in canonical form, so "::ffff:10.0.0.1" comes back
// as "10.0.0.1". Values that are not IPs are returned as given.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, name := range proxyHeaders {
			v := r.Header.Get(name)
			if name == "X-Forwarded-For" {
				v, _, _ = strings.Cut(v, ",")
			}
			if host := hostOnly(v); host != "" {
				return canonicalIP(host)
			}
		}
	}
	return canonicalIP(hostOnly(r.RemoteAddr))
}

func hostOnly(s string) string {
	s = strings.TrimSpace(s)
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return strings.Trim(s, "[]")
}

func canonicalIP(s string) string {
	if a, ok := parseAddr(s); ok {
		return a.String()
	}
	return s
}

// parseAddr drops zones and unwraps IPv4-mapped IPv6 so one rule covers
// both notations of an address.
func parseAddr(s string) (netip.Addr, bool) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return a.WithZone("").Unmap(), true
}

// IPMatcher allows addresses that fall inside any of its prefixes. A bare IP
// rule is kept as a single-address prefix.
type IPMatcher struct {
	prefixes []netip.Prefix
}

// NewIPMatcher builds a matcher from IPs and CIDRs. Blank and unparsable
// entries are skipped.
func NewIPMatcher(rules []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range rules {
		rule := strings.TrimSpace(raw)
		if rule == "" {
			continue
		}
		if p, err := netip.ParsePrefix(rule); err == nil {
			if a := p.Addr(); a.Is4In6() && p.Bits() >= 96 {
				p = netip.PrefixFrom(a.Unmap(), p.Bits()-96)
			}
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if a, ok := parseAddr(rule); ok {
			m.prefixes = append(m.prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

func (m *IPMatcher) Allow(ip string) bool {
	a, ok := parseAddr(ip)
	if !ok {
		return false
	}
	for _, p := range m.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
