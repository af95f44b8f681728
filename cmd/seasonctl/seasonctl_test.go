package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymabb/Petra/internal/database"
)

func TestPrintDay(t *testing.T) {
	var buf bytes.Buffer
	printDay(&buf, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))

	out := buf.String()
	assert.Contains(t, out, "Date:         2024-02-29")
	assert.Contains(t, out, "Day of year:  60")
	assert.Contains(t, out, "Adjusted day: 60")
	assert.Contains(t, out, "Leap year:    true")
}

func TestDayCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"day", "2023-03-01"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Day of year:  60")
	assert.Contains(t, out.String(), "Adjusted day: 61")

	root = newRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"day", "2023-02-30"})
	assert.Error(t, root.Execute())
}

func TestPrintTable(t *testing.T) {
	tests := []struct {
		year  int
		lines int
		has   []string
		lacks string
	}{
		{year: 2023, lines: 365, has: []string{"01-01   1", "02-28  59", "03-01  61", "12-31 366"}, lacks: " 60\n"},
		{year: 2024, lines: 366, has: []string{"02-29  60", "03-01  61", "12-31 366"}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		printTable(&buf, tt.year)

		out := buf.String()
		assert.Equal(t, tt.lines, strings.Count(out, "\n"), "year %d", tt.year)
		for _, want := range tt.has {
			assert.Contains(t, out, want, "year %d", tt.year)
		}
		if tt.lacks != "" {
			assert.NotContains(t, out, tt.lacks, "year %d", tt.year)
		}
	}
}

func TestPagePrefix(t *testing.T) {
	assert.Equal(t, "index", pagePrefix("index.html"))
	assert.Equal(t, "about-index", pagePrefix("about/index.html"))
	assert.Equal(t, "news-2024-spring", pagePrefix("news/2024/spring.htm"))
}

func TestImportSite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<html><body>
<section id="winter" class="seasonal-content" data-day-start="1" data-day-end="59"><h2>Winter</h2><p>Keep warm</p></section>
<section class="seasonal-content" data-day-start="60" data-day-end="60"><h2>Leap day</h2></section>
<section class="seasonal-content" data-day-start="spring" data-day-end="100"><p>Broken</p></section>
<section class="seasonal-content" data-day-start="300" data-day-end="400"><p>Too long</p></section>
</body></html>`)},
		"about/index.html": {Data: []byte(`<html><body>
<div class="seasonal-content" data-day-start="61" data-day-end="366"><p>Rest</p></div>
</body></html>`)},
		"style.css": {Data: []byte("body{}")},
	}

	stats, err := importSite(ctx, db, fsys, logger)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Pages: 2, Imported: 3, Skipped: 2}, stats)

	winter, err := db.GetBlockBySlug(ctx, "winter")
	require.NoError(t, err)
	assert.Equal(t, "Winter", winter.Title)
	assert.Equal(t, 1, winter.StartDay)
	assert.Equal(t, 59, winter.EndDay)
	assert.Contains(t, winter.BodyHTML, "<p>Keep warm</p>")

	leap, err := db.GetBlockBySlug(ctx, "index-2")
	require.NoError(t, err)
	assert.Equal(t, 60, leap.StartDay)

	rest, err := db.GetBlockBySlug(ctx, "about-index-1")
	require.NoError(t, err)
	assert.Equal(t, 366, rest.EndDay)

	// Re-importing updates in place.
	stats, err = importSite(ctx, db, fsys, logger)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Imported)

	blocks, err := db.ListBlocks(ctx)
	require.NoError(t, err)
	assert.Len(t, blocks, 3)
}

func TestAnalyzeCoverage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	for _, b := range []database.SeasonalBlock{
		{Slug: "winter", StartDay: 1, EndDay: 59},
		{Slug: "rest", StartDay: 61, EndDay: 366},
		{Slug: "december", StartDay: 336, EndDay: 366},
	} {
		require.NoError(t, db.UpsertBlock(ctx, &b))
	}

	report, err := analyzeCoverage(ctx, db, 2023, 2024)
	require.NoError(t, err)

	assert.Equal(t, 365+366, report.TotalDays)
	// Only 2024-02-29 (day 60) is uncovered.
	assert.Equal(t, 1, report.Gaps)
	assert.Equal(t, map[string][]string{"2024-02": {"2024-02-29"}}, report.GapDates)
	assert.Zero(t, report.ByYear[2023].Gaps)
	// December overlaps in both years.
	assert.Equal(t, 31, report.ByYear[2023].Overlaps)
	assert.Equal(t, 62, report.Overlaps)

	var buf bytes.Buffer
	report.print(&buf)
	assert.Contains(t, buf.String(), "2024-02: 1 days")
	assert.Contains(t, buf.String(), "  - 2024-02-29")
}
