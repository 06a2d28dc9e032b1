package schedule

import "fmt"

// Season is the inclusive month window the calendar is generated for.
// The current offering season runs September 2025 through December 2026.
type Season struct {
	StartYear  int `yaml:"start_year" json:"startYear"`
	StartMonth int `yaml:"start_month" json:"startMonth"`
	EndYear    int `yaml:"end_year" json:"endYear"`
	EndMonth   int `yaml:"end_month" json:"endMonth"`
}

// DefaultSeason returns the September-2025 through December-2026 window.
func DefaultSeason() Season {
	return Season{StartYear: 2025, StartMonth: 9, EndYear: 2026, EndMonth: 12}
}

// Validate checks that the window is well formed and runs forward.
func (s Season) Validate() error {
	if s.StartMonth < 1 || s.StartMonth > 12 {
		return fmt.Errorf("season start month %d out of range", s.StartMonth)
	}
	if s.EndMonth < 1 || s.EndMonth > 12 {
		return fmt.Errorf("season end month %d out of range", s.EndMonth)
	}
	if s.index(s.EndYear, s.EndMonth) < s.index(s.StartYear, s.StartMonth) {
		return fmt.Errorf("season ends (%d-%02d) before it starts (%d-%02d)",
			s.EndYear, s.EndMonth, s.StartYear, s.StartMonth)
	}
	return nil
}

func (s Season) index(year, month int) int {
	return year*12 + month
}

// Contains reports whether (year, month) falls inside the window.
func (s Season) Contains(year, month int) bool {
	at := s.index(year, month)
	return at >= s.index(s.StartYear, s.StartMonth) && at <= s.index(s.EndYear, s.EndMonth)
}

// Len returns the number of months in the window.
func (s Season) Len() int {
	return s.index(s.EndYear, s.EndMonth) - s.index(s.StartYear, s.StartMonth) + 1
}

// Months returns every (year, month) in the window in chronological order.
func (s Season) Months() []DateParts {
	out := make([]DateParts, 0, s.Len())
	year, month := s.StartYear, s.StartMonth
	for {
		out = append(out, DateParts{Year: year, Month: month})
		if year == s.EndYear && month == s.EndMonth {
			return out
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
}
