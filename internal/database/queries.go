package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp stored as SQLite TEXT.
// Returns the zero time if no known format matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

const blockColumns = `id, slug, title, start_day, end_day, body_html, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (*SeasonalBlock, error) {
	var b SeasonalBlock
	var createdAt, updatedAt string
	if err := row.Scan(&b.ID, &b.Slug, &b.Title, &b.StartDay, &b.EndDay, &b.BodyHTML, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.CreatedAt = parseTimestamp(createdAt)
	b.UpdatedAt = parseTimestamp(updatedAt)
	return &b, nil
}

func collectBlocks(rows *sql.Rows) ([]SeasonalBlock, error) {
	defer rows.Close()

	blocks := []SeasonalBlock{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return blocks, nil
}

// =============================================================================
// Seasonal Block Queries
// =============================================================================

func createBlock(ctx context.Context, q querier, b *SeasonalBlock) error {
	if err := b.Validate(); err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO seasonal_blocks (slug, title, start_day, end_day, body_html)
		VALUES (?, ?, ?, ?, ?)
	`, b.Slug, b.Title, b.StartDay, b.EndDay, b.BodyHTML)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("block %q: %w", b.Slug, ErrDuplicate)
		}
		return fmt.Errorf("insert block: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get inserted block id: %w", err)
	}
	return reload(ctx, q, b, id)
}

func upsertBlock(ctx context.Context, q querier, b *SeasonalBlock) error {
	if err := b.Validate(); err != nil {
		return err
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO seasonal_blocks (slug, title, start_day, end_day, body_html)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			start_day = excluded.start_day,
			end_day = excluded.end_day,
			body_html = excluded.body_html,
			updated_at = datetime('now')
	`, b.Slug, b.Title, b.StartDay, b.EndDay, b.BodyHTML)
	if err != nil {
		return fmt.Errorf("upsert block: %w", err)
	}

	stored, err := getBlockBySlug(ctx, q, b.Slug)
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

func reload(ctx context.Context, q querier, b *SeasonalBlock, id int64) error {
	stored, err := scanBlock(q.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM seasonal_blocks WHERE id = ?`, id))
	if err != nil {
		return fmt.Errorf("reload block %d: %w", id, err)
	}
	*b = *stored
	return nil
}

func getBlockBySlug(ctx context.Context, q querier, slug string) (*SeasonalBlock, error) {
	b, err := scanBlock(q.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM seasonal_blocks WHERE slug = ?`, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query block by slug: %w", err)
	}
	return b, nil
}

// CreateBlock inserts a new block and fills in its ID and timestamps.
// Returns ErrDuplicate if the slug is taken and ErrInvalidRange if the
// range is out of bounds.
func (db *DB) CreateBlock(ctx context.Context, b *SeasonalBlock) error {
	return createBlock(ctx, db, b)
}

// UpsertBlock inserts a block or replaces the one with the same slug.
func (db *DB) UpsertBlock(ctx context.Context, b *SeasonalBlock) error {
	return upsertBlock(ctx, db, b)
}

// UpsertBlock inserts or replaces a block within the transaction.
func (tx *Tx) UpsertBlock(ctx context.Context, b *SeasonalBlock) error {
	return upsertBlock(ctx, tx, b)
}

// GetBlock retrieves a block by ID.
func (db *DB) GetBlock(ctx context.Context, id int64) (*SeasonalBlock, error) {
	b, err := scanBlock(db.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM seasonal_blocks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query block: %w", err)
	}
	return b, nil
}

// GetBlockBySlug retrieves a block by its slug.
func (db *DB) GetBlockBySlug(ctx context.Context, slug string) (*SeasonalBlock, error) {
	return getBlockBySlug(ctx, db, slug)
}

// ListBlocks returns every block ordered by start day.
func (db *DB) ListBlocks(ctx context.Context) ([]SeasonalBlock, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM seasonal_blocks ORDER BY start_day, end_day, slug`)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	return collectBlocks(rows)
}

// ListBlocksForDay returns the blocks whose range contains the adjusted day.
func (db *DB) ListBlocksForDay(ctx context.Context, day int) ([]SeasonalBlock, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+blockColumns+` FROM seasonal_blocks
		WHERE start_day <= ? AND end_day >= ?
		ORDER BY start_day, end_day, slug
	`, day, day)
	if err != nil {
		return nil, fmt.Errorf("query blocks for day %d: %w", day, err)
	}
	return collectBlocks(rows)
}

// DeleteBlock removes a block by slug. Returns ErrNotFound if it doesn't exist.
func (db *DB) DeleteBlock(ctx context.Context, slug string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM seasonal_blocks WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete block rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
