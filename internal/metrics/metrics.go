package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for Lineup
type Metrics struct {
	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec

	// Calendar derivation
	CalendarBuildsTotal        prometheus.Counter
	CalendarBuildSeconds       prometheus.Histogram
	ContentWarningsTotal       *prometheus.CounterVec
	CatalogEntities            *prometheus.GaugeVec
	ValidationFindings         *prometheus.GaugeVec
	CatalogReloadsTotal        prometheus.Counter
	CatalogReloadFailuresTotal prometheus.Counter

	// Admin edits
	AdminSavesTotal *prometheus.CounterVec

	// System metrics
	UptimeSeconds    prometheus.Gauge
	Goroutines       prometheus.Gauge
	StorageUsedBytes prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		// API metrics
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lineup_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lineup_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lineup_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		// Calendar derivation
		CalendarBuildsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lineup_calendar_builds_total",
				Help: "Total number of full calendar builds",
			},
		),
		CalendarBuildSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lineup_calendar_build_seconds",
				Help:    "Full calendar build duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		ContentWarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lineup_content_warnings_total",
				Help: "Total number of data-quality warnings emitted during derivation",
			},
			[]string{"code"},
		),
		CatalogEntities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lineup_catalog_entities",
				Help: "Number of entities in the active catalog by kind",
			},
			[]string{"kind"},
		),
		ValidationFindings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lineup_validation_findings",
				Help: "Findings from the last content validation pass by severity",
			},
			[]string{"severity"},
		),
		CatalogReloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lineup_catalog_reloads_total",
				Help: "Total number of catalog rebuilds",
			},
		),
		CatalogReloadFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lineup_catalog_reload_failures_total",
				Help: "Total number of failed catalog rebuilds",
			},
		),

		// Admin edits
		AdminSavesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lineup_admin_saves_total",
				Help: "Total number of admin entity saves",
			},
			[]string{"kind"},
		),

		// System metrics
		UptimeSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lineup_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
		Goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lineup_goroutines",
				Help: "Number of active goroutines",
			},
		),
		StorageUsedBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lineup_storage_used_bytes",
				Help: "Overlay database file size in bytes",
			},
		),

		registry: reg,
	}

	// Register all metrics
	reg.MustRegister(
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
		m.CalendarBuildsTotal,
		m.CalendarBuildSeconds,
		m.ContentWarningsTotal,
		m.CatalogEntities,
		m.ValidationFindings,
		m.CatalogReloadsTotal,
		m.CatalogReloadFailuresTotal,
		m.AdminSavesTotal,
		m.UptimeSeconds,
		m.Goroutines,
		m.StorageUsedBytes,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// IncContentWarning increments the data-quality warning counter
func IncContentWarning(code string) {
	m := Global()
	if m != nil {
		m.ContentWarningsTotal.WithLabelValues(code).Inc()
	}
}

// IncAdminSave increments the admin save counter
func IncAdminSave(kind string) {
	m := Global()
	if m != nil {
		m.AdminSavesTotal.WithLabelValues(kind).Inc()
	}
}

// IncAPIErrors increments API error counter
func IncAPIErrors(errorType string) {
	m := Global()
	if m != nil {
		m.APIErrorsTotal.WithLabelValues(errorType).Inc()
	}
}

// ObserveCalendarBuild records one full calendar build
func ObserveCalendarBuild(seconds float64) {
	m := Global()
	if m != nil {
		m.CalendarBuildsTotal.Inc()
		m.CalendarBuildSeconds.Observe(seconds)
	}
}

// SetCatalogEntities updates the per-kind entity gauges
func SetCatalogEntities(counts map[string]int) {
	m := Global()
	if m != nil {
		for kind, n := range counts {
			m.CatalogEntities.WithLabelValues(kind).Set(float64(n))
		}
	}
}

// SetValidationFindings updates the per-severity finding gauges
func SetValidationFindings(counts map[string]int) {
	m := Global()
	if m != nil {
		for severity, n := range counts {
			m.ValidationFindings.WithLabelValues(severity).Set(float64(n))
		}
	}
}

// IncCatalogReload records a catalog rebuild
func IncCatalogReload(ok bool) {
	m := Global()
	if m != nil {
		m.CatalogReloadsTotal.Inc()
		if !ok {
			m.CatalogReloadFailuresTotal.Inc()
		}
	}
}
