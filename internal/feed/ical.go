// Package feed exports seasonal blocks as an iCalendar feed.
package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/andymabb/Petra/internal/calendar"
	"github.com/andymabb/Petra/internal/database"
)

// iCalendar constants.
const (
	ICalVersion = "2.0"
	ICalProdID  = "-//Petra//Seasonal Content//EN"
	ICalScale   = "GREGORIAN"
	ICalMethod  = "PUBLISH"
	ICalDomain  = "seasonal.petra"

	PropXWRCalName = "X-WR-CALNAME"

	ContentType = "text/calendar; charset=utf-8"
)

// Span returns the dates a block covers in year: the first day and the day
// after the last (exclusive end). ok is false if no date of the range
// exists in that year, e.g. a leap-day-only block in a common year.
func Span(year, startDay, endDay int) (start, endExclusive time.Time, ok bool) {
	first, last := -1, -1
	for day := startDay; day <= endDay; day++ {
		if _, exists := calendar.DateForAdjustedDay(year, day); exists {
			if first < 0 {
				first = day
			}
			last = day
		}
	}
	if first < 0 {
		return time.Time{}, time.Time{}, false
	}
	start, _ = calendar.DateForAdjustedDay(year, first)
	end, _ := calendar.DateForAdjustedDay(year, last)
	return start, end.AddDate(0, 0, 1), true
}

// Build creates a calendar with one all-day event per block for year.
func Build(year int, blocks []database.SeasonalBlock, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, ICalVersion)
	cal.Props.SetText(ical.PropProductID, ICalProdID)
	cal.Props.SetText(ical.PropCalendarScale, ICalScale)
	cal.Props.SetText(ical.PropMethod, ICalMethod)
	cal.Props.SetText(PropXWRCalName, fmt.Sprintf("Seasonal content %d", year))

	for _, b := range blocks {
		start, end, ok := Span(year, b.StartDay, b.EndDay)
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%d@%s", b.Slug, year, ICalDomain))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

		summary := b.Title
		if summary == "" {
			summary = b.Slug
		}
		event.Props.SetText(ical.PropSummary, summary)
		event.Props.SetText(ical.PropDescription, fmt.Sprintf("Days %d-%d", b.StartDay, b.EndDay))

		dtStart := ical.NewProp(ical.PropDateTimeStart)
		dtStart.SetDate(start)
		event.Props.Set(dtStart)

		dtEnd := ical.NewProp(ical.PropDateTimeEnd)
		dtEnd.SetDate(end)
		event.Props.Set(dtEnd)

		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}

// calendarProps are the calendar-level properties written for a calendar
// without events, in output order.
var calendarProps = []string{
	ical.PropVersion,
	ical.PropProductID,
	ical.PropCalendarScale,
	ical.PropMethod,
	PropXWRCalName,
}

// encodeEmpty writes a calendar with no events by hand, since the encoder
// rejects one. Property values are already escaped by Props.SetText.
func encodeEmpty(cal *ical.Calendar) []byte {
	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	for _, name := range calendarProps {
		if prop := cal.Props.Get(name); prop != nil {
			fmt.Fprintf(&buf, "%s:%s\r\n", name, prop.Value)
		}
	}
	buf.WriteString("END:VCALENDAR\r\n")
	return buf.Bytes()
}

// Encode serialises a calendar.
func Encode(cal *ical.Calendar) ([]byte, error) {
	if len(cal.Children) == 0 {
		return encodeEmpty(cal), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
