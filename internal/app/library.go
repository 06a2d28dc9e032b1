package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/latination/lineup/internal/calendar"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/metrics"
	"github.com/latination/lineup/internal/schedule"
)

// Library is the live content snapshot the API serves from. The YAML
// tables are the system of record; admin edits live in the overlay
// store. Reload rebuilds the whole snapshot from both and swaps it in
// atomically, so readers never see a half-built catalog.
type Library struct {
	dir    string
	store  *content.Store
	season schedule.Season
	logger *slog.Logger

	mu      sync.RWMutex
	catalog *content.Catalog
	gen     *calendar.Generator
	report  *content.Report
}

// NewLibrary creates a library. The store may be nil when admin edits
// are disabled. Call Reload before serving.
func NewLibrary(dir string, store *content.Store, season schedule.Season, logger *slog.Logger) *Library {
	return &Library{
		dir:    dir,
		store:  store,
		season: season,
		logger: logger,
	}
}

// Reload rebuilds the snapshot from the YAML tables plus the overlay.
// Validation errors reject the rebuild and leave the previous snapshot
// serving.
func (l *Library) Reload() error {
	tables, err := l.load()
	if err != nil {
		metrics.IncCatalogReload(false)
		return err
	}

	report := content.Validate(*tables, l.season)
	if err := report.Err(); err != nil {
		metrics.IncCatalogReload(false)
		return fmt.Errorf("content validation failed: %w", err)
	}

	diag := meteredDiagnostics{next: schedule.SlogDiagnostics{Logger: l.logger}}
	catalog := content.NewCatalog(*tables, diag)
	gen := calendar.NewGenerator(catalog, l.season, diag)

	l.mu.Lock()
	l.catalog = catalog
	l.gen = gen
	l.report = report
	l.mu.Unlock()

	counts := catalog.Counts()
	metrics.IncCatalogReload(true)
	metrics.SetCatalogEntities(counts)
	metrics.SetValidationFindings(severityCounts(report))

	l.logger.Info("catalog loaded",
		"series", counts["series"],
		"campaigns", counts["campaigns"],
		"findings", len(report.Findings),
	)
	return nil
}

func (l *Library) load() (*content.Tables, error) {
	tables, err := content.LoadTables(l.dir)
	if err != nil {
		return nil, err
	}
	if l.store == nil {
		return tables, nil
	}

	overlay, err := l.store.Overlay()
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay: %w", err)
	}
	merged := content.Merge(*tables, *overlay)
	return &merged, nil
}

// Catalog returns the current catalog snapshot.
func (l *Library) Catalog() *content.Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog
}

// Generator returns the current calendar generator.
func (l *Library) Generator() *calendar.Generator {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gen
}

// Report returns the validation report for the current snapshot.
func (l *Library) Report() *content.Report {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.report
}

// Counts reports catalog entity counts for the metrics collector.
func (l *Library) Counts() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.catalog == nil {
		return nil
	}
	return l.catalog.Counts()
}

// meteredDiagnostics counts each warning by code before forwarding it.
type meteredDiagnostics struct {
	next schedule.Diagnostics
}

func (d meteredDiagnostics) Warn(code schedule.WarnCode, fields map[string]string) {
	metrics.IncContentWarning(string(code))
	d.next.Warn(code, fields)
}

func severityCounts(r *content.Report) map[string]int {
	out := make(map[string]int)
	for sev, n := range r.CountBySeverity() {
		out[string(sev)] = n
	}
	return out
}
