package database

// migrationsSQL contains all database migrations, applied in version order.
var migrationsSQL = map[int]string{
	1: migrationV1SeasonalBlocks,
	2: migrationV2DayIndex,
}

// migrationV1SeasonalBlocks creates the block table.
//
// Day ranges use the adjusted day index (1-366, Feb 29 = 60, Mar 1 = 61,
// May 31 = 152, Dec 31 = 366), so one row describes the same calendar span
// in every year.
const migrationV1SeasonalBlocks = `
CREATE TABLE IF NOT EXISTS seasonal_blocks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    start_day INTEGER NOT NULL CHECK (start_day BETWEEN 1 AND 366),
    end_day INTEGER NOT NULL CHECK (end_day BETWEEN 1 AND 366),
    body_html TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),
    CHECK (start_day <= end_day)
);
`

// migrationV2DayIndex speeds up "which blocks cover day N" lookups.
const migrationV2DayIndex = `
CREATE INDEX IF NOT EXISTS idx_seasonal_blocks_days
    ON seasonal_blocks (start_day, end_day);
`
