package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// DateParts is a parsed premiere or event date. Day is 0 when the source
// value carried only year and month.
type DateParts struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day,omitempty"`
}

// InvalidDateError reports a date field that does not conform to
// "YYYY-MM" or "YYYY-MM-DD". Sentinel values like "Ongoing" land here
// too: the owning entity simply has no calendar placement.
type InvalidDateError struct {
	Raw string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date format: %q", e.Raw)
}

// ParseDate parses "YYYY-MM" or "YYYY-MM-DD" (dots accepted as
// delimiters). Anything else returns *InvalidDateError; the caller treats
// the value as undated rather than guessing a month bucket.
func ParseDate(raw string) (DateParts, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateParts{}, &InvalidDateError{Raw: raw}
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '.'
	})
	if len(parts) < 2 || len(parts) > 3 {
		return DateParts{}, &InvalidDateError{Raw: raw}
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return DateParts{}, &InvalidDateError{Raw: raw}
		}
		nums[i] = n
	}

	d := DateParts{Year: nums[0], Month: nums[1]}
	if d.Year < 1000 || d.Year > 9999 {
		return DateParts{}, &InvalidDateError{Raw: raw}
	}
	if d.Month < 1 || d.Month > 12 {
		return DateParts{}, &InvalidDateError{Raw: raw}
	}
	if len(nums) == 3 {
		d.Day = nums[2]
		if d.Day < 1 || d.Day > 31 {
			return DateParts{}, &InvalidDateError{Raw: raw}
		}
	}
	return d, nil
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English month name for 1..12, or "" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// MonthSlug formats a (year, month) as the "YYYY-MM" slug used in month
// URLs and API paths.
func MonthSlug(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthSlug parses a "YYYY-MM" month slug.
func ParseMonthSlug(slug string) (year, month int, err error) {
	d, err := ParseDate(slug)
	if err != nil || d.Day != 0 {
		return 0, 0, &InvalidDateError{Raw: slug}
	}
	return d.Year, d.Month, nil
}

// Quarter returns the year-keyed quarter bucket for a month, e.g.
// "q4-2025" for October 2025. Q1 is January–March.
func Quarter(year, month int) string {
	q := (month-1)/3 + 1
	return fmt.Sprintf("q%d-%d", q, year)
}
