// Package ipfilter restricts HTTP listeners to operator-configured
// source networks. Both the public API and the metrics listener take an
// allowlist from config; an empty list means open access.
package ipfilter

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// Filter holds a parsed allowlist of networks.
type Filter struct {
	nets   []*net.IPNet
	logger *slog.Logger
}

// New parses a list of IPs and CIDRs into a filter. Entries that do not
// parse are logged and skipped rather than failing startup.
func New(entries []string, logger *slog.Logger) *Filter {
	f := &Filter{logger: logger}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ipNet, err := parseEntry(entry)
		if err != nil {
			logger.Warn("skipping invalid allowed_ips entry", "entry", entry, "error", err)
			continue
		}
		f.nets = append(f.nets, ipNet)
	}
	return f
}

// parseEntry accepts either CIDR notation or a bare IP, which is
// widened to a single-host network.
func parseEntry(entry string) (*net.IPNet, error) {
	if strings.Contains(entry, "/") {
		_, ipNet, err := net.ParseCIDR(entry)
		return ipNet, err
	}
	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, fmt.Errorf("not an IP address")
	}
	mask := net.CIDRMask(128, 128)
	if ip.To4() != nil {
		mask = net.CIDRMask(32, 32)
	}
	return &net.IPNet{IP: ip, Mask: mask}, nil
}

// Enabled reports whether any networks are configured.
func (f *Filter) Enabled() bool { return len(f.nets) > 0 }

// Size returns the number of configured networks.
func (f *Filter) Size() int { return len(f.nets) }

// Allows reports whether ip falls inside the allowlist. An empty filter
// allows everything.
func (f *Filter) Allows(ip net.IP) bool {
	if len(f.nets) == 0 {
		return true
	}
	for _, n := range f.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Middleware rejects requests from outside the allowlist with 403.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !f.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		ip := ClientIP(r)
		if ip == nil {
			f.logger.Warn("could not parse client IP", "remote_addr", r.RemoteAddr)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if !f.Allows(ip) {
			f.logger.Warn("request denied by IP filter", "ip", ip.String(), "path", r.URL.Path)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the client address from a request, honoring
// X-Forwarded-For and X-Real-IP set by a fronting proxy.
func ClientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}
