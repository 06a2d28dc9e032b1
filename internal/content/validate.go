package content

import (
	"fmt"
	"strings"

	"github.com/latination/lineup/internal/schedule"
)

// Severity ranks a validation finding. Errors fail the validation pass;
// warnings are data-quality problems the calendar recovers from by
// omission; info findings are expected oddities worth knowing about.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one validation result.
type Finding struct {
	Severity Severity          `json:"severity"`
	Code     schedule.WarnCode `json:"code"`
	Kind     string            `json:"kind"`
	ID       string            `json:"id"`
	Message  string            `json:"message"`
}

// Report is the outcome of a content validation pass.
type Report struct {
	Findings []Finding `json:"findings"`
}

func (r *Report) add(sev Severity, code schedule.WarnCode, kind, id, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: sev,
		Code:     code,
		Kind:     kind,
		ID:       id,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any finding is fatal.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountBySeverity returns finding counts keyed by severity.
func (r *Report) CountBySeverity() map[Severity]int {
	out := make(map[Severity]int, 3)
	for _, f := range r.Findings {
		out[f.Severity]++
	}
	return out
}

// Err returns an error when the pass failed, nil otherwise.
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	n := r.CountBySeverity()[SeverityError]
	return fmt.Errorf("content validation failed: %d error(s)", n)
}

// Validate runs the full content validation pass: duplicate ids and
// slugs (fatal), unparseable dates, dangling references, unrecognized
// flight strings and invalid pillar values (warnings). The season window
// is needed to parse implicit-year flight strings the way the calendar
// will.
func Validate(t Tables, season schedule.Season) *Report {
	r := &Report{}
	matcher := schedule.NewFlightMatcher(season)

	seriesByID := make(map[string]bool, len(t.Series))
	seriesBySlug := make(map[string]bool, len(t.Series))
	slugOwner := make(map[string]string)

	checkSlug := func(kind, id, title string) {
		slug := schedule.Slugify(title)
		if slug == "" {
			r.add(SeverityError, schedule.WarnDuplicateSlug, kind, id,
				"title %q produces an empty slug", title)
			return
		}
		if owner, dup := slugOwner[slug]; dup {
			r.add(SeverityError, schedule.WarnDuplicateSlug, kind, id,
				"slug %q collides with %s; one of the two is unreachable", slug, owner)
			return
		}
		slugOwner[slug] = kind + "/" + id
	}

	for _, s := range t.Series {
		if s.ID == "" {
			r.add(SeverityError, schedule.WarnDuplicateID, "series", s.ID, "series %q has no id", s.Title)
			continue
		}
		if seriesByID[s.ID] {
			r.add(SeverityError, schedule.WarnDuplicateID, "series", s.ID, "duplicate series id")
			continue
		}
		seriesByID[s.ID] = true
		seriesBySlug[schedule.Slugify(s.Title)] = true
		checkSlug("series", s.ID, s.Title)

		if _, err := schedule.ParseDate(s.PremiereDate); err != nil {
			if strings.EqualFold(strings.TrimSpace(s.PremiereDate), "ongoing") {
				r.add(SeverityInfo, schedule.WarnInvalidDate, "series", s.ID,
					"premiere date %q: evergreen, no calendar placement", s.PremiereDate)
			} else {
				r.add(SeverityWarning, schedule.WarnInvalidDate, "series", s.ID,
					"premiere date %q does not parse; series has no calendar placement", s.PremiereDate)
			}
		}

		if s.Pillar != "" && !ValidPillar(s.Pillar) {
			r.add(SeverityWarning, schedule.WarnUnresolvedReference, "series", s.ID,
				"unknown pillar %q", s.Pillar)
		}
	}

	// Parent references may legally resolve via slug-of-title, but that
	// form should migrate to ids; report it separately so it can be fixed.
	for _, s := range t.Series {
		if s.ParentSeries == "" {
			continue
		}
		switch {
		case seriesByID[s.ParentSeries]:
		case seriesBySlug[schedule.Slugify(s.ParentSeries)]:
			r.add(SeverityInfo, schedule.WarnTitleResolvedParent, "series", s.ID,
				"parent series %q resolves only by title; store the series id instead", s.ParentSeries)
		default:
			r.add(SeverityWarning, schedule.WarnUnresolvedReference, "series", s.ID,
				"parent series %q matches no known series", s.ParentSeries)
		}
	}

	campaignIDs := make(map[string]bool, len(t.Campaigns))
	for _, cp := range t.Campaigns {
		if campaignIDs[cp.ID] {
			r.add(SeverityError, schedule.WarnDuplicateID, "campaign", cp.ID, "duplicate campaign id")
			continue
		}
		campaignIDs[cp.ID] = true
		checkSlug("campaign", cp.ID, cp.Title)

		switch fr := matcher.Parse(cp.FlightDates); fr.Kind {
		case schedule.FlightUnrecognized:
			r.add(SeverityWarning, schedule.WarnAmbiguousFlightRange, "campaign", cp.ID,
				"flight dates %q match no known pattern; campaign will appear in no month", cp.FlightDates)
		case schedule.FlightImplicitYear, schedule.FlightSingleDate:
			r.add(SeverityInfo, schedule.WarnAmbiguousFlightRange, "campaign", cp.ID,
				"flight dates %q carry no year; assumed %d from the season window", cp.FlightDates, fr.Year)
		}

		for _, id := range cp.ParticipatingSeriesIDs {
			if !seriesByID[id] {
				r.add(SeverityWarning, schedule.WarnUnresolvedReference, "campaign", cp.ID,
					"participating series %q matches no known series", id)
			}
		}
	}

	brandedIDs := make(map[string]bool, len(t.BrandedCampaigns))
	for _, b := range t.BrandedCampaigns {
		if brandedIDs[b.ID] {
			r.add(SeverityError, schedule.WarnDuplicateID, "branded_campaign", b.ID, "duplicate branded campaign id")
			continue
		}
		brandedIDs[b.ID] = true
		checkSlug("branded_campaign", b.ID, b.Title)

		if b.Flight != nil {
			continue
		}
		if _, ok := schedule.ParseProseFlight(b.FlightDates); !ok {
			r.add(SeverityWarning, schedule.WarnAmbiguousFlightRange, "branded_campaign", b.ID,
				"flight dates %q do not parse; set a structured flight window", b.FlightDates)
		}
	}

	for _, group := range []struct {
		kind  string
		items []DatedItem
	}{
		{"event", t.Events},
		{"initiative", t.Initiatives},
		{"special", t.Specials},
	} {
		seen := make(map[string]bool, len(group.items))
		for _, it := range group.items {
			if seen[it.ID] {
				r.add(SeverityError, schedule.WarnDuplicateID, group.kind, it.ID, "duplicate id")
				continue
			}
			seen[it.ID] = true
			if _, err := schedule.ParseDate(it.Date); err != nil {
				r.add(SeverityWarning, schedule.WarnInvalidDate, group.kind, it.ID,
					"date %q does not parse; item has no calendar placement", it.Date)
			}
		}
	}

	return r
}
