package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// FlightKind tags which textual pattern a flight-date string matched.
type FlightKind string

const (
	// FlightUnrecognized covers no month. Campaigns land here when their
	// flight string matches none of the known patterns; the validation
	// pass surfaces them so content authors can fix the source string.
	FlightUnrecognized FlightKind = "unrecognized"
	// FlightYearExplicit is "YYYY: MM/DD – MM/DD".
	FlightYearExplicit FlightKind = "year_explicit"
	// FlightImplicitYear is "MM/DD – MM/DD" with the offering year guessed
	// from the season window.
	FlightImplicitYear FlightKind = "implicit_year"
	// FlightSingleDate is a lone "MM/DD".
	FlightSingleDate FlightKind = "single_date"
)

// FlightRange is the normalized form of a campaign flight-date string.
// Year is the campaign year, explicit or assumed; months may wrap the
// year boundary (StartMonth > EndMonth).
type FlightRange struct {
	Kind       FlightKind `json:"kind"`
	Year       int        `json:"year,omitempty"`
	StartMonth int        `json:"startMonth,omitempty"`
	StartDay   int        `json:"startDay,omitempty"`
	EndMonth   int        `json:"endMonth,omitempty"`
	EndDay     int        `json:"endDay,omitempty"`
}

// Covers reports whether the flight range is active in (year, month).
func (r FlightRange) Covers(year, month int) bool {
	if r.Kind == FlightUnrecognized || year != r.Year {
		return false
	}
	if r.Kind == FlightSingleDate {
		return month == r.StartMonth
	}
	if r.StartMonth <= r.EndMonth {
		return month >= r.StartMonth && month <= r.EndMonth
	}
	// Range wraps the year boundary.
	return month >= r.StartMonth || month <= r.EndMonth
}

// Flight-date strings are free text. The patterns below are tried in
// order, first match wins; both en dash and hyphen appear in the data.
var (
	reFlightYearExplicit = regexp.MustCompile(`(\d{4}):\s*(\d{1,2})/(\d{1,2})\s*[–-]\s*(\d{1,2})/(\d{1,2})`)
	reFlightMonthRange   = regexp.MustCompile(`(\d{1,2})/(\d{1,2})\s*[–-]\s*(\d{1,2})/(\d{1,2})`)
	reFlightSingleDate   = regexp.MustCompile(`^\s*(\d{1,2})/(\d{1,2})\s*$`)
)

// FlightMatcher parses campaign flight-date strings and decides month
// coverage. The season window drives the year-disambiguation heuristic
// for flights authored without an explicit year.
type FlightMatcher struct {
	season Season
}

// NewFlightMatcher returns a matcher for the given season window.
func NewFlightMatcher(season Season) *FlightMatcher {
	return &FlightMatcher{season: season}
}

// Parse normalizes a flight-date string into a tagged FlightRange.
// Strings that match no pattern, or match one with an out-of-range month,
// come back as FlightUnrecognized.
func (m *FlightMatcher) Parse(flightDates string) FlightRange {
	if mt := reFlightYearExplicit.FindStringSubmatch(flightDates); mt != nil {
		r := FlightRange{
			Kind:       FlightYearExplicit,
			Year:       atoi(mt[1]),
			StartMonth: atoi(mt[2]),
			StartDay:   atoi(mt[3]),
			EndMonth:   atoi(mt[4]),
			EndDay:     atoi(mt[5]),
		}
		if !validMonth(r.StartMonth) || !validMonth(r.EndMonth) {
			return FlightRange{Kind: FlightUnrecognized}
		}
		return r
	}

	if mt := reFlightMonthRange.FindStringSubmatch(flightDates); mt != nil {
		r := FlightRange{
			Kind:       FlightImplicitYear,
			StartMonth: atoi(mt[1]),
			StartDay:   atoi(mt[2]),
			EndMonth:   atoi(mt[3]),
			EndDay:     atoi(mt[4]),
		}
		if !validMonth(r.StartMonth) || !validMonth(r.EndMonth) {
			return FlightRange{Kind: FlightUnrecognized}
		}
		r.Year = m.assumeSeasonYear(r.StartMonth)
		return r
	}

	if mt := reFlightSingleDate.FindStringSubmatch(flightDates); mt != nil {
		r := FlightRange{
			Kind:       FlightSingleDate,
			StartMonth: atoi(mt[1]),
			StartDay:   atoi(mt[2]),
		}
		if !validMonth(r.StartMonth) {
			return FlightRange{Kind: FlightUnrecognized}
		}
		r.Year = m.assumeSeasonYear(r.StartMonth)
		r.EndMonth, r.EndDay = r.StartMonth, r.StartDay
		return r
	}

	return FlightRange{Kind: FlightUnrecognized}
}

// CoversMonth parses flightDates and reports whether it covers
// (year, month). Unrecognized strings cover nothing, never error.
func (m *FlightMatcher) CoversMonth(flightDates string, year, month int) bool {
	return m.Parse(flightDates).Covers(year, month)
}

// assumeSeasonYear guesses the offering year of a flight authored without
// one. A flight starting at or after the season's opening month is
// assumed to belong to the season's first calendar year, anything earlier
// to the second. This is a heuristic tied to the current Sep-2025 through
// Dec-2026 season, not a business rule; retiring it means migrating all
// campaigns to the explicit-year flight format.
func (m *FlightMatcher) assumeSeasonYear(startMonth int) int {
	if startMonth >= m.season.StartMonth {
		return m.season.StartYear
	}
	return m.season.EndYear
}

// MonthWindow is an explicit month-granular flight window, the structured
// replacement for prose branded-campaign flight strings.
type MonthWindow struct {
	StartYear  int `yaml:"start_year" json:"startYear"`
	StartMonth int `yaml:"start_month" json:"startMonth"`
	EndYear    int `yaml:"end_year" json:"endYear"`
	EndMonth   int `yaml:"end_month" json:"endMonth"`
}

// Covers reports whether (year, month) falls inside the window.
func (w MonthWindow) Covers(year, month int) bool {
	at := year*12 + month
	return at >= w.StartYear*12+w.StartMonth && at <= w.EndYear*12+w.EndMonth
}

var reProseYear = regexp.MustCompile(`\b(\d{4})\b`)
var reProseSlashMonth = regexp.MustCompile(`(\d{1,2})/\d{1,2}`)

// ParseProseFlight parses branded-campaign flight prose such as
// "JUNE – DECEMBER 2025", "APRIL – SEPT 22 2025" or "1/1 – 12/31 2025"
// into a MonthWindow. Month names may be abbreviated to three or more
// letters. Returns false when no year or no month bound can be extracted.
func ParseProseFlight(raw string) (MonthWindow, bool) {
	s := strings.ToLower(raw)

	ym := reProseYear.FindStringSubmatch(s)
	if ym == nil {
		return MonthWindow{}, false
	}
	year := atoi(ym[1])

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '–' || r == '—' || r == '-'
	})
	if len(parts) < 2 {
		return MonthWindow{}, false
	}

	start, ok := proseMonth(parts[0])
	if !ok {
		return MonthWindow{}, false
	}
	end, ok := proseMonth(strings.Join(parts[1:], " "))
	if !ok {
		return MonthWindow{}, false
	}

	return MonthWindow{StartYear: year, StartMonth: start, EndYear: year, EndMonth: end}, true
}

// proseMonth extracts a month from one side of a prose flight range,
// either a "M/D" token or a (possibly abbreviated) month name.
func proseMonth(part string) (int, bool) {
	if mt := reProseSlashMonth.FindStringSubmatch(part); mt != nil {
		m := atoi(mt[1])
		if validMonth(m) {
			return m, true
		}
		return 0, false
	}

	for _, word := range strings.FieldsFunc(part, func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		if len(word) < 3 {
			continue
		}
		for i, name := range monthNames {
			if strings.HasPrefix(strings.ToLower(name), word) {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func validMonth(m int) bool { return m >= 1 && m <= 12 }

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
