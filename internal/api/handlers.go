package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/latination/lineup/internal/calendar"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/metrics"
	"github.com/latination/lineup/internal/schedule"
)

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string          `json:"status"`
	Version string          `json:"version"`
	Uptime  string          `json:"uptime"`
	Season  schedule.Season `json:"season"`
	Catalog map[string]int  `json:"catalog"`
}

// CalendarResponse is the response for GET /api/v1/calendar
type CalendarResponse struct {
	Season schedule.Season        `json:"season"`
	Months []calendar.MonthRecord `json:"months"`
}

// SeriesDetail is the response for GET /api/v1/series/{slug}
type SeriesDetail struct {
	content.Series
	Slug       string `json:"slug"`
	ParentSlug string `json:"parentSlug,omitempty"`
}

// ReportResponse is the response for GET /api/v1/report
type ReportResponse struct {
	OK       bool                     `json:"ok"`
	Counts   map[content.Severity]int `json:"counts"`
	Findings []content.Finding        `json:"findings"`
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Error string `json:"error"`
}

const version = "0.1.0"

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version,
		Uptime:  time.Since(s.startTime).String(),
		Season:  s.source.Generator().Season(),
		Catalog: s.source.Catalog().Counts(),
	})
}

// handleCalendar handles GET /api/v1/calendar
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	gen := s.source.Generator()

	start := time.Now()
	months := gen.Calendar()
	metrics.ObserveCalendarBuild(time.Since(start).Seconds())

	s.sendJSON(w, http.StatusOK, CalendarResponse{
		Season: gen.Season(),
		Months: months,
	})
}

// handleCalendarMonth handles GET /api/v1/calendar/{month}
func (s *Server) handleCalendarMonth(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "month")

	rec, ok, err := s.source.Generator().MonthBySlug(slug)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid month slug, want YYYY-MM")
		return
	}
	if !ok {
		s.sendError(w, http.StatusNotFound, "Month outside the season window")
		return
	}

	s.sendJSON(w, http.StatusOK, rec)
}

// handleSeriesList handles GET /api/v1/series
func (s *Server) handleSeriesList(w http.ResponseWriter, r *http.Request) {
	catalog := s.source.Catalog()
	out := make([]calendar.SeriesEntry, 0, len(catalog.Series()))
	for _, sr := range catalog.Series() {
		out = append(out, calendar.SeriesEntry{Series: sr, Slug: schedule.Slugify(sr.Title)})
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleSeries handles GET /api/v1/series/{slug}
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	catalog := s.source.Catalog()

	sr, ok := catalog.SeriesBySlug(chi.URLParam(r, "slug"))
	if !ok {
		s.sendError(w, http.StatusNotFound, "Series not found")
		return
	}

	detail := SeriesDetail{Series: sr, Slug: schedule.Slugify(sr.Title)}
	if parent, ok := calendar.NewResolver(catalog, nil).Parent(sr); ok {
		detail.ParentSlug = schedule.Slugify(parent.Title)
	}
	s.sendJSON(w, http.StatusOK, detail)
}

// handleCampaignList handles GET /api/v1/campaigns
func (s *Server) handleCampaignList(w http.ResponseWriter, r *http.Request) {
	catalog := s.source.Catalog()
	resolver := calendar.NewResolver(catalog, nil)

	out := make([]calendar.CampaignEntry, 0, len(catalog.Campaigns()))
	for _, c := range catalog.Campaigns() {
		out = append(out, calendar.CampaignEntry{
			Campaign:            c,
			Slug:                schedule.Slugify(c.Title),
			ParticipatingSeries: resolver.Participants(c),
		})
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleCampaign handles GET /api/v1/campaigns/{slug}
func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	catalog := s.source.Catalog()

	c, ok := catalog.CampaignBySlug(chi.URLParam(r, "slug"))
	if !ok {
		s.sendError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	s.sendJSON(w, http.StatusOK, calendar.CampaignEntry{
		Campaign:            c,
		Slug:                schedule.Slugify(c.Title),
		ParticipatingSeries: calendar.NewResolver(catalog, nil).Participants(c),
	})
}

// handleBrandedList handles GET /api/v1/branded
func (s *Server) handleBrandedList(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, s.source.Catalog().BrandedCampaigns())
}

// handleBranded handles GET /api/v1/branded/{slug}
func (s *Server) handleBranded(w http.ResponseWriter, r *http.Request) {
	b, ok := s.source.Catalog().BrandedBySlug(chi.URLParam(r, "slug"))
	if !ok {
		s.sendError(w, http.StatusNotFound, "Branded campaign not found")
		return
	}
	s.sendJSON(w, http.StatusOK, b)
}

// handleContent handles GET /api/v1/content with the overview filters
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.source.Generator().Filter(calendar.Criteria{
		Pillar:  q.Get("pillar"),
		IsNew:   q.Get("new"),
		Quarter: q.Get("quarter"),
		Type:    q.Get("type"),
	})
	s.sendJSON(w, http.StatusOK, items)
}

// handleReport handles GET /api/v1/report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report := s.source.Report()
	s.sendJSON(w, http.StatusOK, ReportResponse{
		OK:       !report.HasErrors(),
		Counts:   report.CountBySeverity(),
		Findings: report.Findings,
	})
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{Error: message})
}
