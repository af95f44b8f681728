package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDateString(s)
	require.NoError(t, err)
	return d
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2000, true},
		{2024, true},
		{1996, true},
		{1900, false},
		{2023, false},
		{2100, false},
		{2400, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLeapYear(tt.year), "IsLeapYear(%d)", tt.year)
	}
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2023-01-01", 1},
		{"2023-02-28", 59},
		{"2023-03-01", 60},
		{"2023-12-31", 365},
		{"2024-02-29", 60},
		{"2024-03-01", 61},
		{"2024-12-31", 366},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, DayOfYear(date(t, tt.date)))
		})
	}
}

func TestDayOfYear_IgnoresTimeAndZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// Late evening on the day the clocks go forward.
	d := time.Date(2024, time.March, 31, 23, 30, 0, 0, loc)
	assert.Equal(t, 91, DayOfYear(d))

	// Just after midnight on the day they go back.
	d = time.Date(2024, time.October, 27, 0, 30, 0, 0, loc)
	assert.Equal(t, 301, DayOfYear(d))
}

func TestDayOfYear_EveryDayIsSequential(t *testing.T) {
	for _, year := range []int{1900, 2000, 2023, 2024} {
		d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		want := 1
		for d.Year() == year {
			require.Equal(t, want, DayOfYear(d), "date %s", FormatDate(d))
			d = d.AddDate(0, 0, 1)
			want++
		}
	}
}

func TestAdjustedDayOfYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		// Unshifted head of the year.
		{"2023-01-01", 1},
		{"2023-02-28", 59},
		{"2024-01-01", 1},
		{"2024-02-28", 59},
		// The leap day keeps its own slot.
		{"2024-02-29", 60},
		// March 1 onwards is fixed across years.
		{"2023-03-01", 61},
		{"2024-03-01", 61},
		{"2023-12-31", 366},
		{"2024-12-31", 366},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustedDayOfYear(date(t, tt.date)))
		})
	}
}

func TestAdjustedDayOfYear_StableAcrossYears(t *testing.T) {
	common := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for common.Year() == 2023 {
		leap := time.Date(2024, common.Month(), common.Day(), 0, 0, 0, 0, time.UTC)
		require.Equal(t, AdjustedDayOfYear(leap), AdjustedDayOfYear(common),
			"month/day %s", common.Format("01-02"))
		common = common.AddDate(0, 0, 1)
	}

	assert.Equal(t, AdjustedDayOfYear(date(t, "2024-06-15")), AdjustedDayOfYear(date(t, "2023-06-15")))
}

func TestAdjustedDayOfYear_Range(t *testing.T) {
	for _, year := range []int{1900, 2000, 2023, 2024} {
		seen := make(map[int]bool)
		d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for d.Year() == year {
			day := AdjustedDayOfYear(d)
			require.GreaterOrEqual(t, day, 1)
			require.LessOrEqual(t, day, MaxDay)
			require.False(t, seen[day], "duplicate day %d in %d", day, year)
			seen[day] = true
			d = d.AddDate(0, 0, 1)
		}
		assert.Equal(t, IsLeapYear(year), seen[LeapDay], "leap slot used in %d", year)
	}
}

func TestDateForAdjustedDay(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		day    int
		want   string
		wantOK bool
	}{
		{"first day", 2023, 1, "2023-01-01", true},
		{"feb 28 common", 2023, 59, "2023-02-28", true},
		{"leap slot common", 2023, 60, "", false},
		{"march 1 common", 2023, 61, "2023-03-01", true},
		{"last day common", 2023, 366, "2023-12-31", true},
		{"leap slot leap", 2024, 60, "2024-02-29", true},
		{"march 1 leap", 2024, 61, "2024-03-01", true},
		{"may 31 common", 2023, 152, "2023-05-31", true},
		{"may 31 leap", 2024, 152, "2024-05-31", true},
		{"zero", 2024, 0, "", false},
		{"too large", 2024, 367, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DateForAdjustedDay(tt.year, tt.day)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, FormatDate(got))
				assert.Equal(t, tt.day, AdjustedDayOfYear(got))
			}
		})
	}
}

func TestParseDateString(t *testing.T) {
	d, err := ParseDateString("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", FormatDate(d))
	assert.Equal(t, "01/03/2024", DisplayDate(d))

	for _, bad := range []string{"", "not-a-date", "2024-02-30", "2023-02-29", "2024/03/01", "24-03-01"} {
		_, err := ParseDateString(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", bad)
	}
}

func TestClocks(t *testing.T) {
	fixed := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", FormatDate(Today(FixedClock(fixed))))

	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	assert.Equal(t, loc, RealClock{Location: loc}.Now().Location())
}
