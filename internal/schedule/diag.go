// Package schedule holds the pure scheduling primitives of the programming
// calendar: slug generation, date parsing, flight-range parsing and the
// season window. Nothing here does I/O; malformed content data never
// produces an error, only a diagnostics warning, because the tables are
// hand-maintained and a bad row must not take a page down.
package schedule

import (
	"log/slog"
	"sync"
)

// WarnCode classifies data-quality warnings.
type WarnCode string

const (
	WarnInvalidDate          WarnCode = "invalid_date"
	WarnUnresolvedReference  WarnCode = "unresolved_reference"
	WarnAmbiguousFlightRange WarnCode = "ambiguous_flight_range"
	WarnDuplicateSlug        WarnCode = "duplicate_slug"
	WarnDuplicateID          WarnCode = "duplicate_id"
	WarnTitleResolvedParent  WarnCode = "title_resolved_parent"
)

// Diagnostics collects data-quality warnings emitted by the derivation
// layer. Implementations must be safe for concurrent use.
type Diagnostics interface {
	Warn(code WarnCode, fields map[string]string)
}

// NopDiagnostics discards all warnings. It is the default collector.
type NopDiagnostics struct{}

func (NopDiagnostics) Warn(WarnCode, map[string]string) {}

// SlogDiagnostics forwards warnings to a structured logger.
type SlogDiagnostics struct {
	Logger *slog.Logger
}

func (d SlogDiagnostics) Warn(code WarnCode, fields map[string]string) {
	attrs := make([]any, 0, 2+2*len(fields))
	attrs = append(attrs, "code", string(code))
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	d.Logger.Warn("content warning", attrs...)
}

// Warning is a recorded diagnostics entry.
type Warning struct {
	Code   WarnCode
	Fields map[string]string
}

// Recorder keeps every warning in memory so tests and the validation
// pass can assert on what was emitted.
type Recorder struct {
	mu       sync.Mutex
	warnings []Warning
}

func (r *Recorder) Warn(code WarnCode, fields map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	r.warnings = append(r.warnings, Warning{Code: code, Fields: cp})
}

// Warnings returns a copy of the recorded warnings in emission order.
func (r *Recorder) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Count returns how many warnings with the given code were recorded.
func (r *Recorder) Count(code WarnCode) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, w := range r.warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}
