package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

// ACMEManager obtains and renews certificates from Let's Encrypt.
type ACMEManager struct {
	manager *autocert.Manager
	domains []string
}

// NewACMEManager creates an ACME manager with a directory cache.
func NewACMEManager(email string, domains []string, cacheDir string) *ACMEManager {
	return &ACMEManager{
		manager: &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Email:      email,
			HostPolicy: autocert.HostWhitelist(domains...),
			Cache:      autocert.DirCache(cacheDir),
		},
		domains: domains,
	}
}

// Domains returns the configured domain list.
func (a *ACMEManager) Domains() []string {
	return a.domains
}

// TLSConfig returns a server TLS configuration backed by the manager.
func (a *ACMEManager) TLSConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: a.manager.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// HTTPHandler returns the HTTP-01 challenge handler. The fallback serves
// any request that is not an ACME challenge.
func (a *ACMEManager) HTTPHandler(fallback http.Handler) http.Handler {
	return a.manager.HTTPHandler(fallback)
}

// EnsureCertificates fetches or renews certificates for every configured
// domain. The HTTP challenge handler must already be listening on :80.
func (a *ACMEManager) EnsureCertificates(ctx context.Context) ([]CertificateInfo, error) {
	var results []CertificateInfo

	for _, domain := range a.domains {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		// A synthetic hello makes autocert fetch from cache or order a
		// new certificate, renewing when close to expiry.
		cert, err := a.manager.GetCertificate(&tls.ClientHelloInfo{ServerName: domain})
		if err != nil {
			return results, fmt.Errorf("failed to obtain certificate for %s: %w", domain, err)
		}
		if cert == nil || len(cert.Certificate) == 0 {
			continue
		}

		leaf := cert.Leaf
		if leaf == nil {
			if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
				return results, fmt.Errorf("failed to parse certificate for %s: %w", domain, err)
			}
		}

		results = append(results, CertificateInfo{
			Subject:   domain,
			Issuer:    leaf.Issuer.CommonName,
			NotBefore: leaf.NotBefore,
			NotAfter:  leaf.NotAfter,
			DaysLeft:  int(time.Until(leaf.NotAfter).Hours() / 24),
			DNSNames:  leaf.DNSNames,
		})
	}

	return results, nil
}
