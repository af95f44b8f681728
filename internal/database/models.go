package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/andymabb/Petra/internal/calendar"
	"github.com/andymabb/Petra/internal/seasonal"
)

// SeasonalBlock is an authored content block shown on the days in
// [StartDay, EndDay] of the adjusted day index.
//
// Days are numbered on a leap-year calendar in every year: February 29 is
// 60, March 1 is 61, May 31 is 152 and December 31 is 366. In a common year
// day 60 never occurs. calendar.DateForAdjustedDay maps a day back to a date.
type SeasonalBlock struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	StartDay  int       `json:"start_day"`
	EndDay    int       `json:"end_day"`
	BodyHTML  string    `json:"body_html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Visible is filled in per request by the resolver; it is not stored.
	Visible bool `json:"visible"`
}

// Validate checks the slug and day range.
func (b *SeasonalBlock) Validate() error {
	if b.Slug == "" {
		return ErrSlugRequired
	}
	if b.StartDay < 1 || b.EndDay > calendar.MaxDay || b.StartDay > b.EndDay {
		return fmt.Errorf("%w: %d-%d must satisfy 1 <= start <= end <= %d",
			ErrInvalidRange, b.StartDay, b.EndDay, calendar.MaxDay)
	}
	return nil
}

// Attr exposes the range in attribute form so stored blocks can be
// resolved like page regions.
func (b *SeasonalBlock) Attr(name string) string {
	switch name {
	case seasonal.AttrDayStart:
		return strconv.Itoa(b.StartDay)
	case seasonal.AttrDayEnd:
		return strconv.Itoa(b.EndDay)
	}
	return ""
}

// SetVisible records the resolver's decision.
func (b *SeasonalBlock) SetVisible(visible bool) {
	b.Visible = visible
}
