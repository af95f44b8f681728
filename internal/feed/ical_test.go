package feed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymabb/Petra/internal/calendar"
	"github.com/andymabb/Petra/internal/database"
)

func TestSpan(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		start, end int
		wantStart  string
		wantEnd    string
		wantOK     bool
	}{
		{"winter common", 2023, 1, 59, "2023-01-01", "2023-03-01", true},
		{"through leap slot common", 2023, 1, 60, "2023-01-01", "2023-03-01", true},
		{"through leap slot leap", 2024, 1, 60, "2024-01-01", "2024-03-01", true},
		{"spring common", 2023, 61, 152, "2023-03-01", "2023-06-01", true},
		{"spring leap", 2024, 61, 152, "2024-03-01", "2024-06-01", true},
		{"day 151 is May 30 common", 2023, 151, 151, "2023-05-30", "2023-05-31", true},
		{"day 151 is May 30 leap", 2024, 151, 151, "2024-05-30", "2024-05-31", true},
		{"leap day in leap year", 2024, 60, 60, "2024-02-29", "2024-03-01", true},
		{"leap day in common year", 2023, 60, 60, "", "", false},
		{"whole year", 2023, 1, 366, "2023-01-01", "2024-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := Span(tt.year, tt.start, tt.end)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantStart, calendar.FormatDate(start))
				assert.Equal(t, tt.wantEnd, calendar.FormatDate(end))
			}
		})
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)
	blocks := []database.SeasonalBlock{
		{Slug: "winter", Title: "Winter", StartDay: 1, EndDay: 59},
		{Slug: "leap-day", StartDay: 60, EndDay: 60},
		{Slug: "spring", Title: "Spring", StartDay: 61, EndDay: 152},
	}

	data, err := Encode(Build(2023, blocks, now))
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2, "leap-day block has no date in 2023")

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "winter-2023@"+ICalDomain, uid)

	summary, err := events[1].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Spring", summary)

	assert.Equal(t, "20230301", events[1].Props.Get(ical.PropDateTimeStart).Value)
	assert.Equal(t, "20230601", events[1].Props.Get(ical.PropDateTimeEnd).Value)
}

func TestBuild_UsesSlugWithoutTitle(t *testing.T) {
	cal := Build(2024, []database.SeasonalBlock{{Slug: "leap-day", StartDay: 60, EndDay: 60}}, time.Now())

	events := cal.Events()
	require.Len(t, events, 1)
	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "leap-day", summary)
	assert.Equal(t, "20240229", events[0].Props.Get(ical.PropDateTimeStart).Value)
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(Build(2023, nil, time.Now()))
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Contains(t, out, "VERSION:"+ICalVersion+"\r\n")
	assert.Contains(t, out, "PRODID:"+ICalProdID+"\r\n")
	assert.Contains(t, out, "CALSCALE:"+ICalScale+"\r\n")
	assert.Contains(t, out, "METHOD:"+ICalMethod+"\r\n")
	assert.Contains(t, out, PropXWRCalName+":Seasonal content 2023\r\n")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
