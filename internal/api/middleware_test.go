package api

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/latination/lineup/internal/config"
)

func TestAllowedIPs(t *testing.T) {
	source := newTestSource(t, nil)
	cfg := &config.APIConfig{ListenAddr: ":0", AllowedIPs: []string{"10.0.0.0/8"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewServer(source, nil, cfg, logger)

	t.Run("inside allowlist", func(t *testing.T) {
		rec := doRequest(t, s, "GET", "/api/v1/series", nil, map[string]string{"X-Real-IP": "10.1.2.3"})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("outside allowlist", func(t *testing.T) {
		rec := doRequest(t, s, "GET", "/api/v1/series", nil, map[string]string{"X-Real-IP": "203.0.113.9"})
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		rec := doRequest(t, s, "GET", "/health", nil, map[string]string{"X-Real-IP": "203.0.113.9"})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestNoAllowedIPsIsOpen(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/series", nil, map[string]string{"X-Real-IP": "203.0.113.9"})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
