package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/andymabb/Petra/internal/calendar"
	"github.com/andymabb/Petra/internal/database"
)

// maxExamples caps the dates listed per month in the report.
const maxExamples = 5

var errCoverageGaps = errors.New("coverage has gaps")

func coverageCmd(newLogger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		dbPath    string
		startYear int
		years     int
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report dates with no stored seasonal block, or more than one",
		Long: "Walks every date in the range, resolves its adjusted day and counts the stored " +
			"blocks covering it. Exits non-zero when any date has no block.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if years < 1 {
				return fmt.Errorf("--years must be at least 1")
			}
			log := newLogger(cmd)

			db, err := database.Open(database.DefaultConfig(dbPath), log)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			report, err := analyzeCoverage(cmd.Context(), db, startYear, startYear+years-1)
			if err != nil {
				return err
			}

			report.print(cmd.OutOrStdout())
			if report.Gaps > 0 {
				return errCoverageGaps
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/seasonal.db", "Path to SQLite database")
	cmd.Flags().IntVar(&startYear, "start", time.Now().Year(), "First year to check")
	cmd.Flags().IntVar(&years, "years", 4, "Number of years to check")
	return cmd
}

// CoverageReport summarises how stored blocks cover a range of years.
type CoverageReport struct {
	StartYear int
	EndYear   int
	TotalDays int
	Gaps      int
	Overlaps  int
	ByYear    map[int]*YearCoverage
	GapDates  map[string][]string // by YYYY-MM
}

// YearCoverage holds per-year counts.
type YearCoverage struct {
	Year     int
	Days     int
	Gaps     int
	Overlaps int
}

// analyzeCoverage counts, for each date from startYear through endYear,
// the stored blocks whose range contains its adjusted day.
func analyzeCoverage(ctx context.Context, db *database.DB, startYear, endYear int) (*CoverageReport, error) {
	report := &CoverageReport{
		StartYear: startYear,
		EndYear:   endYear,
		ByYear:    make(map[int]*YearCoverage),
		GapDates:  make(map[string][]string),
	}

	// Counts depend only on the adjusted day.
	counts := make(map[int]int, calendar.MaxDay)
	for day := 1; day <= calendar.MaxDay; day++ {
		blocks, err := db.ListBlocksForDay(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("list blocks for day %d: %w", day, err)
		}
		counts[day] = len(blocks)
	}

	for year := startYear; year <= endYear; year++ {
		yc := &YearCoverage{Year: year}
		report.ByYear[year] = yc

		current := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for current.Year() == year {
			n := counts[calendar.AdjustedDayOfYear(current)]
			report.TotalDays++
			yc.Days++

			switch {
			case n == 0:
				report.Gaps++
				yc.Gaps++
				month := current.Format("2006-01")
				report.GapDates[month] = append(report.GapDates[month], calendar.FormatDate(current))
			case n > 1:
				report.Overlaps++
				yc.Overlaps++
			}

			current = current.AddDate(0, 0, 1)
		}
	}

	return report, nil
}

func (r *CoverageReport) print(w io.Writer) {
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintln(w, "Seasonal Content - Coverage")
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintf(w, "Date Range:  %d-01-01 to %d-12-31\n", r.StartYear, r.EndYear)
	fmt.Fprintf(w, "Total Days:  %d\n", r.TotalDays)
	fmt.Fprintf(w, "Gaps:        %d\n", r.Gaps)
	fmt.Fprintf(w, "Overlaps:    %d\n", r.Overlaps)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By Year:")
	for year := r.StartYear; year <= r.EndYear; year++ {
		yc := r.ByYear[year]
		status := "✓"
		if yc.Gaps > 0 {
			status = "✗"
		}
		fmt.Fprintf(w, "  %s %d: %d days, %d gaps, %d overlaps\n", status, year, yc.Days, yc.Gaps, yc.Overlaps)
	}
	fmt.Fprintln(w)

	if r.Gaps == 0 {
		fmt.Fprintln(w, "No gaps.")
		return
	}

	fmt.Fprintln(w, "Gaps by Month:")
	months := make([]string, 0, len(r.GapDates))
	for m := range r.GapDates {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, m := range months {
		dates := r.GapDates[m]
		fmt.Fprintf(w, "\n%s: %d days\n", m, len(dates))
		for i, d := range dates {
			if i == maxExamples {
				fmt.Fprintf(w, "  ... and %d more\n", len(dates)-maxExamples)
				break
			}
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}
}
