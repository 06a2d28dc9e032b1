package api

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/latination/lineup/internal/calendar"
	"github.com/latination/lineup/internal/config"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/ipfilter"
	"github.com/latination/lineup/internal/metrics"
)

// Source provides the active derivation state to the handlers. The
// catalog and generator are immutable snapshots; Reload swaps in a new
// snapshot after an admin edit.
type Source interface {
	Catalog() *content.Catalog
	Generator() *calendar.Generator
	Report() *content.Report
	Reload() error
}

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	source     Source
	store      *content.Store
	config     *config.APIConfig
	logger     *slog.Logger
	filter     *ipfilter.Filter
	startTime  time.Time
}

// NewServer creates a new API server. store may be nil, which disables
// the admin endpoints.
func NewServer(source Source, store *content.Store, cfg *config.APIConfig, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		source:    source,
		store:     store,
		config:    cfg,
		logger:    logger,
		filter:    ipfilter.New(cfg.AllowedIPs, logger),
		startTime: time.Now(),
	}
	if s.filter.Enabled() {
		logger.Info("API IP filtering enabled", "allowed_networks", s.filter.Size())
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(metrics.HTTPMiddleware)
	s.router.Use(middleware.Recoverer)

	// Health check stays outside the IP filter for load balancers
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.filter.Middleware)

		r.Get("/calendar", s.handleCalendar)
		r.Get("/calendar/{month}", s.handleCalendarMonth)
		r.Get("/series", s.handleSeriesList)
		r.Get("/series/{slug}", s.handleSeries)
		r.Get("/campaigns", s.handleCampaignList)
		r.Get("/campaigns/{slug}", s.handleCampaign)
		r.Get("/branded", s.handleBrandedList)
		r.Get("/branded/{slug}", s.handleBranded)
		r.Get("/content", s.handleContent)
		r.Get("/report", s.handleReport)

		// Admin routes (auth required)
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/{kind}", s.handleAdminCreate)
			r.Put("/{kind}/{id}", s.handleAdminUpdate)
			r.Delete("/{kind}/{id}", s.handleAdminDelete)
			r.Get("/audit", s.handleAdminAudit)
		})
	})
}

// Handler returns the root HTTP handler, for tests and for serving
// behind a TLS listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddr,
		Handler:        s.router,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
	}

	s.logger.Info("starting HTTP API server", "addr", s.config.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// ListenAndServeTLS starts the HTTPS server. tlsConfig must already
// carry certificates or a GetCertificate callback.
func (s *Server) ListenAndServeTLS(tlsConfig *tls.Config) error {
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddr,
		Handler:        s.router,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		TLSConfig:      tlsConfig,
	}

	s.logger.Info("starting HTTPS API server", "addr", s.config.ListenAddr)
	return s.httpServer.ListenAndServeTLS("", "")
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
