package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/latination/lineup/internal/api"
	"github.com/latination/lineup/internal/config"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/metrics"
	"github.com/latination/lineup/internal/notify"
	lineupTLS "github.com/latination/lineup/internal/tls"
)

// App is the main application
type App struct {
	config        *config.Config
	library       *Library
	store         *content.Store
	apiServer     *api.Server
	metricsServer *metrics.Server
	collector     *metrics.Collector
	mailer        *notify.Mailer
	logger        *slog.Logger
	tlsConfig     *tls.Config
	acmeManager   *lineupTLS.ACMEManager
	acmeServer    *http.Server
}

// New creates a new application
func New(cfg *config.Config) (*App, error) {
	logger := SetupLogger(cfg.Logging)

	m := metrics.New()
	metrics.SetGlobal(m)

	// The overlay store backs the admin API; without it the calendar is
	// read-only but fully functional.
	var store *content.Store
	if cfg.Storage.Path != "" {
		var err error
		store, err = content.OpenStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open overlay storage: %w", err)
		}
	}

	library := NewLibrary(cfg.Content.Dir, store, cfg.Season, logger.With("component", "library"))
	if err := library.Reload(); err != nil {
		return nil, err
	}

	// Setup TLS configuration
	var tlsConfig *tls.Config
	var acmeManager *lineupTLS.ACMEManager

	if cfg.API.TLS.ACME.Enabled {
		acmeManager = lineupTLS.NewACMEManager(
			cfg.API.TLS.ACME.Email,
			cfg.API.TLS.ACME.Domains,
			cfg.API.TLS.ACME.CacheDir,
		)
		tlsConfig = acmeManager.TLSConfig()
		logger.Info("ACME (Let's Encrypt) enabled", "domains", cfg.API.TLS.ACME.Domains)
	} else if cfg.API.TLS.CertFile != "" && cfg.API.TLS.KeyFile != "" {
		var err error
		tlsConfig, err = lineupTLS.LoadCertificate(cfg.API.TLS.CertFile, cfg.API.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		if info, err := lineupTLS.GetCertificateInfo(cfg.API.TLS.CertFile); err == nil {
			logger.Info("TLS enabled with manual certificates",
				"subject", info.Subject,
				"days_left", info.DaysLeft,
			)
		}
	}

	apiServer := api.NewServer(library, store, &cfg.API, logger.With("component", "api"))

	collector := metrics.NewCollector(m, library, cfg.Storage.Path, 0)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(m, cfg.Metrics.ListenAddr, cfg.Metrics.Path,
			cfg.Metrics.AllowedIPs, logger.With("component", "metrics"))
	}

	mailer := notify.NewMailer(cfg.Notify, cfg.Server.Hostname, logger.With("component", "notify"))

	return &App{
		config:        cfg,
		library:       library,
		store:         store,
		apiServer:     apiServer,
		metricsServer: metricsServer,
		collector:     collector,
		mailer:        mailer,
		logger:        logger,
		tlsConfig:     tlsConfig,
		acmeManager:   acmeManager,
	}, nil
}

// Run starts all components and waits for shutdown
func (a *App) Run(ctx context.Context) error {
	logAttrs := []any{
		"hostname", a.config.Server.Hostname,
		"api_addr", a.config.API.ListenAddr,
		"content_dir", a.config.Content.Dir,
	}
	if a.metricsServer != nil {
		logAttrs = append(logAttrs, "metrics_addr", a.config.Metrics.ListenAddr)
	}
	a.logger.Info("starting lineup", logAttrs...)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a.collector.Start(ctx)

	errCh := make(chan error, 3)

	go func() {
		var err error
		if a.tlsConfig != nil {
			err = a.apiServer.ListenAndServeTLS(a.tlsConfig)
		} else {
			err = a.apiServer.ListenAndServe()
		}
		if err != nil {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// ACME HTTP-01 challenges arrive on port 80; everything else there
	// is redirected to HTTPS.
	if a.acmeManager != nil {
		a.acmeServer = &http.Server{
			Addr: ":80",
			Handler: a.acmeManager.HTTPHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				target := "https://" + r.Host + r.URL.Path
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusMovedPermanently)
			})),
		}
		go func() {
			a.logger.Info("starting ACME HTTP challenge server", "addr", ":80")
			if err := a.acmeServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.logger.Warn("ACME HTTP server error", "error", err)
			}
		}()

		// Warm the certificate cache now instead of on the first TLS
		// handshake, so expiring certificates renew at startup.
		go func() {
			ensureCtx, ensureCancel := context.WithTimeout(ctx, 5*time.Minute)
			defer ensureCancel()
			infos, err := a.acmeManager.EnsureCertificates(ensureCtx)
			if err != nil {
				a.logger.Warn("failed to obtain ACME certificates",
					"domains", a.acmeManager.Domains(), "error", err)
			}
			for _, info := range infos {
				a.logger.Info("ACME certificate ready",
					"subject", info.Subject,
					"issuer", info.Issuer,
					"days_left", info.DaysLeft,
				)
			}
		}()
	}

	// Mail the startup validation report if the content has findings.
	if a.config.Notify.Enabled {
		go func() {
			report := a.library.Report()
			if len(report.Findings) == 0 {
				return
			}
			sendCtx, sendCancel := context.WithTimeout(ctx, time.Minute)
			defer sendCancel()
			if err := a.mailer.SendReport(sendCtx, report, a.config.Season); err != nil {
				a.logger.Warn("failed to mail validation report", "error", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.logger.Error("server error", "error", err)
		cancel()
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a.collector.Stop()

	if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("api server shutdown error", "error", err)
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
		}
	}

	if a.acmeServer != nil {
		if err := a.acmeServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("acme server shutdown error", "error", err)
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("storage close error", "error", err)
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

// SetupLogger creates a logger based on configuration
func SetupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
