// Package calendar provides the date arithmetic behind seasonal content:
// ordinal days, leap years and the year-independent adjusted day index.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MaxDay is the largest adjusted day index (December 31).
	MaxDay = 366

	// LeapDay is the adjusted index reserved for February 29.
	LeapDay = 60

	// lastFebruaryDay is the raw ordinal of February 28, the last day that
	// is numbered the same in every year.
	lastFebruaryDay = 59
)

// ErrInvalidDate is returned when a string is not a YYYY-MM-DD calendar date.
var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Normalize strips time of day and zone, returning midnight UTC of the
// date's own year, month and day.
func Normalize(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayOfYear returns the 1-based ordinal of date within its calendar year:
// the number of whole days since day zero of the year (December 31 of the
// previous year).
func DayOfYear(date time.Time) int {
	date = Normalize(date)
	// time.Date normalises January 0 to December 31 of the previous year.
	dayZero := time.Date(date.Year(), time.January, 0, 0, 0, 0, 0, time.UTC)
	return int(date.Sub(dayZero).Hours() / 24)
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// AdjustedDayOfYear returns the day index of date on a leap-year reference
// calendar, so the same month and day map to the same index in every year.
//
// January 1 through February 28 keep their ordinal (1-59) and February 29
// is 60. From March 1 (61) to December 31 (366) the index is fixed, which
// in a common year means the raw ordinal plus one.
func AdjustedDayOfYear(date time.Time) int {
	day := DayOfYear(date)
	if !IsLeapYear(date.Year()) && day > lastFebruaryDay {
		day++
	}
	return day
}

// DateForAdjustedDay maps an adjusted day index back to a date in year.
// ok is false for indexes outside [1, 366] and for the leap day in a
// common year.
func DateForAdjustedDay(year, day int) (date time.Time, ok bool) {
	if day < 1 || day > MaxDay {
		return time.Time{}, false
	}
	if !IsLeapYear(year) {
		switch {
		case day == LeapDay:
			return time.Time{}, false
		case day > LeapDay:
			day--
		}
	}
	return time.Date(year, time.January, day, 0, 0, 0, 0, time.UTC), true
}

// ParseDateString parses a date string in YYYY-MM-DD format.
func ParseDateString(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: use YYYY-MM-DD", ErrInvalidDate, dateStr)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DisplayDate formats a date day-first (dd/mm/yyyy) for on-page display.
func DisplayDate(date time.Time) string {
	return date.Format("02/01/2006")
}
