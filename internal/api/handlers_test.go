package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/latination/lineup/internal/calendar"
	"github.com/latination/lineup/internal/config"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/schedule"
)

func testTables() content.Tables {
	return content.Tables{
		Series: []content.Series{
			{ID: "checkitow", Title: "Checkitow", PremiereDate: "2025-10", Pillar: content.PillarCulture, ContentType: content.TypeLongForm, IsNew: true},
			{ID: "the-q-agenda", Title: "The Q Agenda", PremiereDate: "2026-06", Pillar: content.PillarQueer, ContentType: content.TypeLongForm},
			{ID: "recuerdos", Title: "Recuerdos", PremiereDate: "Ongoing", ContentType: content.TypeShortForm, ParentSeries: "checkitow"},
		},
		Campaigns: []content.Campaign{
			{ID: "feliz-pride-2026", Title: "Feliz Pride (Pride Month)", FlightDates: "06/01 – 06/30",
				ParticipatingSeriesIDs: []string{"the-q-agenda"}, ContentType: content.TypeTentpole},
		},
		BrandedCampaigns: []content.BrandedCampaign{
			{ID: "ad-council", Title: "Ad Council", FlightDates: "APRIL – SEPT 22 2025", ContentType: content.TypeBranded},
		},
		Events: []content.DatedItem{
			{ID: "latination-launch", Title: "LatiNation.com Launch", Date: "2025-09", Role: content.RoleEvent, ContentType: content.TypeSpecial},
		},
	}
}

// testSource rebuilds its snapshot from the base tables plus the overlay
// store, the way the app wiring does.
type testSource struct {
	mu      sync.Mutex
	base    content.Tables
	store   *content.Store
	season  schedule.Season
	catalog *content.Catalog
	gen     *calendar.Generator
	report  *content.Report
	reloads int
}

func newTestSource(t *testing.T, store *content.Store) *testSource {
	t.Helper()
	s := &testSource{base: testTables(), store: store, season: schedule.DefaultSeason()}
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	s.reloads = 0
	return s
}

func (s *testSource) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := s.base
	if s.store != nil {
		overlay, err := s.store.Overlay()
		if err != nil {
			return err
		}
		tables = content.Merge(tables, *overlay)
	}

	s.catalog = content.NewCatalog(tables, nil)
	s.gen = calendar.NewGenerator(s.catalog, s.season, nil)
	s.report = content.Validate(tables, s.season)
	s.reloads++
	return nil
}

func (s *testSource) Catalog() *content.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

func (s *testSource) Generator() *calendar.Generator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *testSource) Report() *content.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func newTestServer(t *testing.T, store *content.Store, apiKey string) (*Server, *testSource) {
	t.Helper()
	source := newTestSource(t, store)
	cfg := &config.APIConfig{ListenAddr: ":0", APIKey: apiKey}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(source, store, cfg, logger), source
}

func doRequest(t *testing.T, s *Server, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode[HealthResponse](t, rec)
	if resp.Status != "ok" {
		t.Errorf("Status = %q", resp.Status)
	}
	if resp.Catalog["series"] != 3 {
		t.Errorf("Catalog = %v", resp.Catalog)
	}
	if resp.Season != schedule.DefaultSeason() {
		t.Errorf("Season = %+v", resp.Season)
	}
}

func TestHandleCalendar(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/calendar", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode[CalendarResponse](t, rec)
	if len(resp.Months) != 16 {
		t.Fatalf("months = %d, want 16", len(resp.Months))
	}
	if resp.Months[0].Slug != "2025-09" || resp.Months[15].Slug != "2026-12" {
		t.Errorf("window = %s .. %s", resp.Months[0].Slug, resp.Months[15].Slug)
	}
}

func TestHandleCalendarMonth(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/calendar/2025-10", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	month := decode[calendar.MonthRecord](t, rec)
	if len(month.SeriesPremieres) != 1 || month.SeriesPremieres[0].ID != "checkitow" {
		t.Errorf("premieres = %+v", month.SeriesPremieres)
	}

	if rec := doRequest(t, s, "GET", "/api/v1/calendar/2024-01", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("outside season: status = %d", rec.Code)
	}
	if rec := doRequest(t, s, "GET", "/api/v1/calendar/banana", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad slug: status = %d", rec.Code)
	}
}

func TestHandleSeries(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/series", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := decode[[]calendar.SeriesEntry](t, rec)
	if len(list) != 3 {
		t.Errorf("series = %d, want 3", len(list))
	}

	rec = doRequest(t, s, "GET", "/api/v1/series/recuerdos", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail status = %d", rec.Code)
	}
	detail := decode[SeriesDetail](t, rec)
	if detail.ID != "recuerdos" || detail.ParentSlug != "checkitow" {
		t.Errorf("detail = %+v", detail)
	}

	if rec := doRequest(t, s, "GET", "/api/v1/series/nope", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing series: status = %d", rec.Code)
	}
}

func TestHandleCampaign(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/campaigns/feliz-pride-pride-month", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	entry := decode[calendar.CampaignEntry](t, rec)
	if entry.ID != "feliz-pride-2026" {
		t.Errorf("entry = %+v", entry)
	}
	if len(entry.ParticipatingSeries) != 1 || entry.ParticipatingSeries[0].Slug != "the-q-agenda" {
		t.Errorf("participants = %+v", entry.ParticipatingSeries)
	}

	if rec := doRequest(t, s, "GET", "/api/v1/campaigns/nope", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing campaign: status = %d", rec.Code)
	}
}

func TestHandleBranded(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/branded", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := decode[[]content.BrandedCampaign](t, rec)
	if len(list) != 1 || list[0].ID != "ad-council" {
		t.Errorf("branded = %+v", list)
	}

	rec = doRequest(t, s, "GET", "/api/v1/branded/ad-council", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("detail status = %d", rec.Code)
	}
}

func TestHandleContent(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/content?pillar=Culture", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	items := decode[[]calendar.Item](t, rec)
	if len(items) != 1 || items[0].ID != "checkitow" {
		t.Errorf("items = %+v", items)
	}

	rec = doRequest(t, s, "GET", "/api/v1/content?new=yes&quarter=q4-2025", nil, nil)
	items = decode[[]calendar.Item](t, rec)
	if len(items) != 1 || items[0].ID != "checkitow" {
		t.Errorf("combined filter items = %+v", items)
	}

	// No match still returns a JSON array
	rec = doRequest(t, s, "GET", "/api/v1/content?pillar=Roots", nil, nil)
	items = decode[[]calendar.Item](t, rec)
	if items == nil || len(items) != 0 {
		t.Errorf("no-match items = %+v", items)
	}
}

func TestHandleReport(t *testing.T) {
	s, _ := newTestServer(t, nil, "")

	rec := doRequest(t, s, "GET", "/api/v1/report", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[ReportResponse](t, rec)
	if !resp.OK {
		t.Errorf("report not ok: %+v", resp.Findings)
	}
	// The fixture carries an implicit-year flight and an evergreen series,
	// both expected info findings.
	if resp.Counts[content.SeverityInfo] == 0 {
		t.Errorf("counts = %v, want info findings", resp.Counts)
	}
}

func openAPIStore(t *testing.T) *content.Store {
	t.Helper()
	store, err := content.OpenStore(filepath.Join(t.TempDir(), "overlay.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
