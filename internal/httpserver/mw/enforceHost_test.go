package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/cookbook/internal/logger"
)

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"cookbook.local", "cookbook.local", true},
		{"api.cookbook.local", "*.cookbook.local", true},
		{"cookbook.local", "*.cookbook.local", false},
		{".cookbook.local", "*.cookbook.local", false},
		{"evilcookbook.local", "*.cookbook.local", false},
		{"evil.local", "cookbook.local", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchHost(tt.host, tt.pattern), "matchHost(%q, %q)", tt.host, tt.pattern)
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{" Cookbook.Local ", "*.Example.com"}, logger.NewNop())(http.HandlerFunc(noContent))

	tests := []struct {
		host string
		want int
	}{
		{"cookbook.local", http.StatusNoContent},
		{"COOKBOOK.local:8080", http.StatusNoContent},
		{"cookbook.local.", http.StatusNoContent},
		{"api.example.com:443", http.StatusNoContent},
		{"example.com", http.StatusForbidden},
		{"cookbook.local.evil", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/reload", nil)
		r.Host = tt.host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, tt.want, rec.Code, "host %q", tt.host)
	}
}

func TestEnforceHostWithoutHostsPassesThrough(t *testing.T) {
	h := EnforceHost([]string{"", "  "}, logger.NewNop())(http.HandlerFunc(noContent))

	r := httptest.NewRequest(http.MethodPost, "/reload", nil)
	r.Host = "anything.test"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
