package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr only", want: "192.0.2.1"},
		{name: "forwarded ignored without trust", headers: map[string]string{"X-Forwarded-For": "10.0.0.5"}, want: "192.0.2.1"},
		{name: "first forwarded", headers: map[string]string{"X-Forwarded-For": "10.0.0.5, 172.16.0.1"}, trustProxy: true, want: "10.0.0.5"},
		{name: "cloudflare wins", headers: map[string]string{"CF-Connecting-IP": "10.0.0.9", "X-Forwarded-For": "10.0.0.5"}, trustProxy: true, want: "10.0.0.9"},
		{name: "real ip fallback", headers: map[string]string{"X-Real-IP": "10.0.0.7"}, trustProxy: true, want: "10.0.0.7"},
		{name: "blank headers fall through", headers: map[string]string{"CF-Connecting-IP": " ", "X-Forwarded-For": ""}, trustProxy: true, want: "192.0.2.1"},
		{name: "forwarded with port", headers: map[string]string{"X-Forwarded-For": "[2001:db8::1]:443"}, trustProxy: true, want: "2001:db8::1"},
		{name: "mapped remote addr", remoteAddr: "[::ffff:10.0.0.3]:5000", want: "10.0.0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.remoteAddr != "" {
				r.RemoteAddr = tt.remoteAddr
			}
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.10 ", "2001:db8::/32", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := map[string]bool{
		"10.1.2.3":            true,
		"192.168.1.10":        true,
		"192.168.1.11":        false,
		"::ffff:10.9.9.9":     true,
		"::ffff:192.168.1.10": true,
		"2001:db8:1::5":       true,
		"2001:db9::1":         false,
		"fe80::1%eth0":        false,
		"not-an-ip":           false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}

func TestIPMatcherMappedRule(t *testing.T) {
	m := NewIPMatcher([]string{"::ffff:10.0.0.0/104"})

	if !m.Allow("10.20.30.40") {
		t.Error("a mapped IPv4 rule should cover the plain IPv4 address")
	}
	if m.Allow("11.0.0.1") {
		t.Error("address outside the mapped range was allowed")
	}
}
