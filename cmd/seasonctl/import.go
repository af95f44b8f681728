package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andymabb/Petra/internal/database"
	"github.com/andymabb/Petra/internal/page"
)

func importCmd(newLogger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		siteDir string
		dbPath  string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load seasonal blocks from built HTML pages into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			start := time.Now()

			db, err := database.Open(database.DefaultConfig(dbPath), log)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			migrated, err := db.Migrate(cmd.Context())
			if err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			log.Info("migrations complete", slog.Int("applied", migrated))

			stats, err := importSite(cmd.Context(), db, os.DirFS(siteDir), log)
			if err != nil {
				return err
			}

			stats.print(cmd.OutOrStdout(), time.Since(start))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteDir, "site", "dist", "Built site directory")
	cmd.Flags().StringVar(&dbPath, "db", "data/seasonal.db", "Path to SQLite database")
	return cmd
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Pages    int
	Imported int
	Skipped  int
}

func (s ImportStats) print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Import Summary ===")
	fmt.Fprintf(w, "Pages scanned:    %d\n", s.Pages)
	fmt.Fprintf(w, "Blocks imported:  %d\n", s.Imported)
	fmt.Fprintf(w, "Blocks skipped:   %d\n", s.Skipped)
	fmt.Fprintf(w, "Time elapsed:     %v\n", elapsed.Round(time.Millisecond))
}

// importSite upserts every seasonal region found in the HTML pages of fsys
// in a single transaction. Regions whose range is malformed or out of
// bounds are skipped with a warning.
func importSite(ctx context.Context, db *database.DB, fsys fs.FS, log *slog.Logger) (ImportStats, error) {
	var stats ImportStats

	err := db.WithTx(ctx, func(tx *database.Tx) error {
		return fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isHTML(name) {
				return nil
			}
			stats.Pages++
			return importPage(ctx, tx, fsys, name, log, &stats)
		})
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("import site: %w", err)
	}

	log.Info("import complete",
		slog.Int("pages", stats.Pages),
		slog.Int("imported", stats.Imported),
		slog.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func importPage(ctx context.Context, tx *database.Tx, fsys fs.FS, name string, log *slog.Logger, stats *ImportStats) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	doc, err := page.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	blocks, err := doc.Blocks(pagePrefix(name))
	if err != nil {
		return fmt.Errorf("extract %s: %w", name, err)
	}

	for _, eb := range blocks {
		start, end, ok := eb.Range()
		if !ok {
			log.Warn("skipping block with malformed range",
				slog.String("page", name),
				slog.String("slug", eb.Slug),
				slog.String("start", eb.StartRaw),
				slog.String("end", eb.EndRaw),
			)
			stats.Skipped++
			continue
		}

		block := &database.SeasonalBlock{
			Slug:     eb.Slug,
			Title:    eb.Title,
			StartDay: start,
			EndDay:   end,
			BodyHTML: eb.BodyHTML,
		}
		if err := tx.UpsertBlock(ctx, block); err != nil {
			if errors.Is(err, database.ErrInvalidRange) {
				log.Warn("skipping block with invalid range",
					slog.String("page", name),
					slog.String("slug", eb.Slug),
					slog.Any("error", err),
				)
				stats.Skipped++
				continue
			}
			return fmt.Errorf("save block %s from %s: %w", eb.Slug, name, err)
		}

		log.Debug("imported block",
			slog.String("page", name),
			slog.String("slug", block.Slug),
			slog.Int("start_day", block.StartDay),
			slog.Int("end_day", block.EndDay),
		)
		stats.Imported++
	}
	return nil
}

func isHTML(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// pagePrefix derives a slug prefix from a page path: "about/index.html"
// becomes "about-index".
func pagePrefix(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.ReplaceAll(name, "/", "-")
}
