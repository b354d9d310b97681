// Package datetime provides date utility functions for schedule formatting.
package datetime

import (
	"time"

	"affordability-engine/pkg/constants"
)

// DateTimeLayout is the month format used throughout schedules and insights.
const DateTimeLayout = constants.DateTimeLayout

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatMonth renders a time in the month layout.
func FormatMonth(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// OffsetMonths returns the month-formatted date the given number of months
// after the reference time.
func OffsetMonths(t time.Time, months int) string {
	return t.AddDate(0, months, 0).Format(DateTimeLayout)
}
