// Package seasonal decides which seasonal content blocks are visible on a
// given day and applies that decision to a set of regions.
package seasonal

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andymabb/Petra/internal/calendar"
)

// Query parameter and attribute names shared with the site markup.
const (
	ParamTestDate = "testDate"
	ParamShowAll  = "showAll"

	AttrDayStart = "data-day-start"
	AttrDayEnd   = "data-day-end"
)

// Region is a content region tagged with an inclusive day range.
// Attributes are returned as authored; the resolver does the parsing.
type Region interface {
	Attr(name string) string
	SetVisible(visible bool)
}

// Params holds the query parameters that steer resolution.
type Params struct {
	TestDate    string
	HasTestDate bool
	ShowAll     bool
}

// ParamsFromQuery reads testDate and showAll from a URL query.
func ParamsFromQuery(q url.Values) Params {
	_, hasTestDate := q[ParamTestDate]
	_, showAll := q[ParamShowAll]
	return Params{
		TestDate:    q.Get(ParamTestDate),
		HasTestDate: hasTestDate,
		ShowAll:     showAll,
	}
}

// Indicator is the on-page test-mode overlay.
type Indicator struct {
	Date time.Time
	Day  int
}

// Text renders the indicator content as display lines.
func (i Indicator) Text() []string {
	return []string{
		"Test Mode",
		"Date: " + calendar.DisplayDate(i.Date),
		"Day: " + strconv.Itoa(i.Day),
	}
}

// Result describes one visibility run.
type Result struct {
	Date     time.Time
	Day      int
	TestMode bool
	ShowAll  bool
	Matched  int
	Total    int

	// Indicator is set only when a valid testDate override was used.
	Indicator *Indicator
}

// Resolver resolves the effective date and applies visibility to regions.
// It keeps no state between calls.
type Resolver struct {
	clock  calendar.Clock
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil clock reads the local wall clock
// and a nil logger uses slog.Default().
func NewResolver(clock calendar.Clock, logger *slog.Logger) *Resolver {
	if clock == nil {
		clock = calendar.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{clock: clock, logger: logger}
}

// EffectiveDate returns the date to resolve against. A parseable testDate
// wins; an unparseable one is logged and ignored. The second return value
// reports whether the override was used.
func (r *Resolver) EffectiveDate(p Params) (time.Time, bool) {
	if p.HasTestDate {
		date, err := calendar.ParseDateString(p.TestDate)
		if err == nil {
			r.logger.Info("using test date",
				slog.String("test_date", p.TestDate),
				slog.Int("day", calendar.AdjustedDayOfYear(date)),
			)
			return date, true
		}
		r.logger.Warn("invalid testDate parameter, using current date",
			slog.String("test_date", p.TestDate),
		)
	}
	return calendar.Today(r.clock), false
}

// Apply sets visibility on every region for date. With showAll every
// region is shown; otherwise a region is shown iff its range contains the
// adjusted day. testMode attaches an indicator to the result.
func (r *Resolver) Apply(regions []Region, date time.Time, p Params, testMode bool) Result {
	res := Result{
		Date:    calendar.Normalize(date),
		Day:     calendar.AdjustedDayOfYear(date),
		ShowAll: p.ShowAll,
		Total:   len(regions),
	}

	if p.ShowAll {
		for _, region := range regions {
			region.SetVisible(true)
		}
		res.Matched = len(regions)
		r.logger.Info("showing all seasonal content", slog.Int("regions", len(regions)))
		return res
	}

	r.logger.Debug("resolving seasonal content",
		slog.String("date", calendar.FormatDate(res.Date)),
		slog.Int("day", res.Day),
	)

	for _, region := range regions {
		start, end, ok := Range(region)
		if !ok {
			r.logger.Debug("malformed seasonal day range, hiding",
				slog.String("start", region.Attr(AttrDayStart)),
				slog.String("end", region.Attr(AttrDayEnd)),
			)
		}
		visible := ok && start <= res.Day && res.Day <= end
		region.SetVisible(visible)
		if visible {
			res.Matched++
			r.logger.Debug("showing seasonal content",
				slog.String("start", region.Attr(AttrDayStart)),
				slog.String("end", region.Attr(AttrDayEnd)),
			)
		}
	}

	if res.Matched == 0 {
		r.logger.Warn("no matching seasonal content", slog.Int("day", res.Day))
	}

	if testMode {
		res.TestMode = true
		res.Indicator = &Indicator{Date: res.Date, Day: res.Day}
	}

	return res
}

// Run resolves the effective date from p and applies it to regions.
func (r *Resolver) Run(regions []Region, p Params) Result {
	if p.ShowAll {
		return r.Apply(regions, calendar.Today(r.clock), p, false)
	}
	date, testMode := r.EffectiveDate(p)
	return r.Apply(regions, date, p, testMode)
}

// Range parses region's day bounds. ok is false if either is malformed.
func Range(region Region) (start, end int, ok bool) {
	if start, ok = ParseDay(region.Attr(AttrDayStart)); !ok {
		return 0, 0, false
	}
	if end, ok = ParseDay(region.Attr(AttrDayEnd)); !ok {
		return 0, 0, false
	}
	return start, end, true
}

// ParseDay parses a day attribute as a base-10 integer.
func ParseDay(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
