package calendar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/schedule"
)

// CampaignEntry is a campaign as it appears in a month record: the
// campaign itself plus its slug and resolved participating series.
type CampaignEntry struct {
	content.Campaign
	Slug                string        `json:"slug"`
	ParticipatingSeries []Participant `json:"participatingSeries"`
}

// SeriesEntry is a series premiere as it appears in a month record.
type SeriesEntry struct {
	content.Series
	Slug string `json:"slug"`
}

// MonthRecord is the derived view of one calendar month.
type MonthRecord struct {
	Month            string                    `json:"month"`
	Year             int                       `json:"year"`
	Slug             string                    `json:"slug"`
	Campaigns        []CampaignEntry           `json:"campaigns"`
	SeriesPremieres  []SeriesEntry             `json:"seriesPremieres"`
	Events           []content.DatedItem       `json:"events"`
	KeyInitiatives   []content.DatedItem       `json:"keyInitiatives"`
	Specials         []content.DatedItem       `json:"specials"`
	BrandedCampaigns []content.BrandedCampaign `json:"brandedCampaigns"`
}

// Generator derives month records and the full-season calendar from a
// catalog. It holds no mutable state: every call recomputes from the
// catalog, so a Generator is safe for concurrent use and two calls with
// the same catalog yield structurally equal results.
type Generator struct {
	catalog  *content.Catalog
	season   schedule.Season
	matcher  *schedule.FlightMatcher
	resolver *Resolver
	diag     schedule.Diagnostics
}

// NewGenerator returns a generator for the season window. diag may be nil.
func NewGenerator(catalog *content.Catalog, season schedule.Season, diag schedule.Diagnostics) *Generator {
	if diag == nil {
		diag = schedule.NopDiagnostics{}
	}
	return &Generator{
		catalog:  catalog,
		season:   season,
		matcher:  schedule.NewFlightMatcher(season),
		resolver: NewResolver(catalog, diag),
		diag:     diag,
	}
}

// Season returns the generator's season window.
func (g *Generator) Season() schedule.Season { return g.season }

// Aggregate derives the month record for (year, month). A month outside
// 1..12 is a programmer error and returns an error; malformed content
// rows are excluded from the record and reported through diagnostics.
func (g *Generator) Aggregate(year, month int) (MonthRecord, error) {
	return g.aggregate(year, month, g.diag)
}

func (g *Generator) aggregate(year, month int, diag schedule.Diagnostics) (MonthRecord, error) {
	if month < 1 || month > 12 {
		return MonthRecord{}, fmt.Errorf("month %d out of range 1..12", month)
	}

	rec := MonthRecord{
		Month:            schedule.MonthName(month),
		Year:             year,
		Slug:             schedule.MonthSlug(year, month),
		Campaigns:        []CampaignEntry{},
		SeriesPremieres:  []SeriesEntry{},
		Events:           []content.DatedItem{},
		KeyInitiatives:   []content.DatedItem{},
		Specials:         []content.DatedItem{},
		BrandedCampaigns: []content.BrandedCampaign{},
	}

	for _, c := range g.catalog.Campaigns() {
		fr := g.matcher.Parse(c.FlightDates)
		if fr.Kind == schedule.FlightUnrecognized {
			diag.Warn(schedule.WarnAmbiguousFlightRange, map[string]string{
				"campaign": c.ID, "flight_dates": c.FlightDates,
			})
			continue
		}
		if !fr.Covers(year, month) {
			continue
		}
		rec.Campaigns = append(rec.Campaigns, CampaignEntry{
			Campaign:            c,
			Slug:                schedule.Slugify(c.Title),
			ParticipatingSeries: g.resolver.Participants(c),
		})
	}

	for _, s := range g.catalog.Series() {
		d, err := schedule.ParseDate(s.PremiereDate)
		if err != nil {
			// Evergreen short-form uses "Ongoing"; that is an expected
			// undated state, not a data defect.
			if !strings.EqualFold(strings.TrimSpace(s.PremiereDate), "ongoing") {
				diag.Warn(schedule.WarnInvalidDate, map[string]string{
					"series": s.ID, "premiere_date": s.PremiereDate,
				})
			}
			continue
		}
		if d.Year == year && d.Month == month {
			rec.SeriesPremieres = append(rec.SeriesPremieres, SeriesEntry{
				Series: s,
				Slug:   schedule.Slugify(s.Title),
			})
		}
	}

	rec.Events = g.datedIn(g.catalog.Events(), "event", year, month, diag)
	rec.KeyInitiatives = g.datedIn(g.catalog.Initiatives(), "initiative", year, month, diag)
	rec.Specials = g.datedIn(g.catalog.Specials(), "special", year, month, diag)

	for _, b := range g.catalog.BrandedCampaigns() {
		if g.brandedCovers(b, year, month, diag) {
			rec.BrandedCampaigns = append(rec.BrandedCampaigns, b)
		}
	}

	return rec, nil
}

func (g *Generator) datedIn(items []content.DatedItem, kind string, year, month int, diag schedule.Diagnostics) []content.DatedItem {
	out := []content.DatedItem{}
	for _, it := range items {
		d, err := schedule.ParseDate(it.Date)
		if err != nil {
			diag.Warn(schedule.WarnInvalidDate, map[string]string{
				"kind": kind, "id": it.ID, "date": it.Date,
			})
			continue
		}
		if d.Year == year && d.Month == month {
			out = append(out, it)
		}
	}
	return out
}

// brandedCovers decides whether a branded campaign is active in a month.
// A structured flight window wins; otherwise the prose flight string is
// parsed. Prose that does not parse covers nothing.
func (g *Generator) brandedCovers(b content.BrandedCampaign, year, month int, diag schedule.Diagnostics) bool {
	if b.Flight != nil {
		return b.Flight.Covers(year, month)
	}
	w, ok := schedule.ParseProseFlight(b.FlightDates)
	if !ok {
		diag.Warn(schedule.WarnAmbiguousFlightRange, map[string]string{
			"branded_campaign": b.ID, "flight_dates": b.FlightDates,
		})
		return false
	}
	return w.Covers(year, month)
}

// Calendar derives the full season, one record per month in
// chronological order. Warnings that would otherwise repeat for each of
// the season's months are deduplicated for the run.
func (g *Generator) Calendar() []MonthRecord {
	diag := newOnceDiag(g.diag)
	months := g.season.Months()
	out := make([]MonthRecord, 0, len(months))
	for _, m := range months {
		rec, err := g.aggregate(m.Year, m.Month, diag)
		if err != nil {
			// Season months are validated at construction; unreachable.
			continue
		}
		out = append(out, rec)
	}
	return out
}

// MonthBySlug derives the record for a "YYYY-MM" slug inside the season
// window. Returns false for slugs outside the window.
func (g *Generator) MonthBySlug(slug string) (MonthRecord, bool, error) {
	year, month, err := schedule.ParseMonthSlug(slug)
	if err != nil {
		return MonthRecord{}, false, err
	}
	if !g.season.Contains(year, month) {
		return MonthRecord{}, false, nil
	}
	rec, err := g.Aggregate(year, month)
	if err != nil {
		return MonthRecord{}, false, err
	}
	return rec, true, nil
}

// onceDiag suppresses duplicate warnings within one derivation run.
type onceDiag struct {
	next schedule.Diagnostics
	seen map[string]bool
}

func newOnceDiag(next schedule.Diagnostics) *onceDiag {
	return &onceDiag{next: next, seen: make(map[string]bool)}
}

func (d *onceDiag) Warn(code schedule.WarnCode, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := string(code)
	for _, k := range keys {
		key += "|" + k + "=" + fields[k]
	}
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	d.next.Warn(code, fields)
}
