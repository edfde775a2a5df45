// Package datetime provides date and period utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
)

const (
	// DateLayout is the format expected in plan files and is also the output
	// date format.
	DateLayout = constants.DateLayout
)

var germanMonths = [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a plan date (YYYY-MM-DD) at UTC midnight.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected %s: %w", dateStr, DateLayout, err)
	}
	return t, nil
}

// TruncateDay drops the time of day and normalizes to UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the start date of the index-th weekly period.
func WeekStart(start time.Time, index int) time.Time {
	return TruncateDay(start).AddDate(0, 0, constants.DaysPerWeek*index)
}

// MonthStart returns the first day of the index-th monthly period, counted
// from the month containing start.
func MonthStart(start time.Time, index int) time.Time {
	y, m, _ := start.Date()
	return time.Date(y, m+time.Month(index), 1, 0, 0, 0, 0, time.UTC)
}

// WeekLabel renders the ISO week of t, e.g. "KW 07/2026".
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("KW %02d/%d", week, year)
}

// MonthLabel renders the German month abbreviation and year, e.g. "Feb 2026".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", germanMonths[t.Month()-1], t.Year())
}
