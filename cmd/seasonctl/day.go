package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/andymabb/Petra/internal/calendar"
)

func dayCmd() *cobra.Command {
	var timezone string

	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show the raw and adjusted day of year for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date time.Time
			if len(args) == 1 {
				d, err := calendar.ParseDateString(args[0])
				if err != nil {
					return err
				}
				date = d
			} else {
				loc, err := time.LoadLocation(timezone)
				if err != nil {
					return fmt.Errorf("load timezone %q: %w", timezone, err)
				}
				date = calendar.Today(calendar.RealClock{Location: loc})
			}

			printDay(cmd.OutOrStdout(), date)
			return nil
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "Europe/London", "Time zone used for today")
	return cmd
}

func printDay(w io.Writer, date time.Time) {
	fmt.Fprintf(w, "Date:         %s\n", calendar.FormatDate(date))
	fmt.Fprintf(w, "Day of year:  %d\n", calendar.DayOfYear(date))
	fmt.Fprintf(w, "Adjusted day: %d\n", calendar.AdjustedDayOfYear(date))
	fmt.Fprintf(w, "Leap year:    %t\n", calendar.IsLeapYear(date.Year()))
}

func tableCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the adjusted day for every date of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year < 1 || year > 9999 {
				return fmt.Errorf("invalid year %d", year)
			}
			printTable(cmd.OutOrStdout(), year)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Calendar year")
	return cmd
}

// printTable writes one "MM-DD day" line per date of year. In a common
// year the index jumps from 59 to 61.
func printTable(w io.Writer, year int) {
	for day := 1; day <= calendar.MaxDay; day++ {
		date, ok := calendar.DateForAdjustedDay(year, day)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s %3d\n", date.Format("01-02"), day)
	}
}
