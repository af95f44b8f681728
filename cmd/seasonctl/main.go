// Command seasonctl inspects the seasonal day index and loads authored
// blocks from a built site into the block store.
//
// Usage:
//
//	seasonctl day 2024-02-29
//	seasonctl table --year 2023
//	seasonctl import --site dist --db data/seasonal.db
//	seasonctl coverage --db data/seasonal.db --start 2024 --years 4
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/andymabb/Petra/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:           "seasonctl",
		Short:         "Seasonal content tools",
		Long:          "Inspect the adjusted day-of-year index and import seasonal blocks from built pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	newLogger := func(cmd *cobra.Command) *slog.Logger {
		return logger.New(cmd.ErrOrStderr(), logLevel, logFormat)
	}

	root.AddCommand(
		dayCmd(),
		tableCmd(),
		importCmd(newLogger),
		coverageCmd(newLogger),
	)
	return root
}
