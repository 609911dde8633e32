package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// quoteIdentifier quotes a table or index name that has passed IsValidTableName.
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// cacheTableDDL returns the statements that create table and its index.
func cacheTableDDL(table string) []string {
	quoted := quoteIdentifier(table)
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT NOT NULL PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			value TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`, quoted),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (updated_at)`,
			quoteIdentifier("idx_"+table+"_updated_at"), quoted),
	}
}

// Migrate creates the cache table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB, table string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate %s: begin: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range cacheTableDDL(table) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate %s: commit: %w", table, err)
	}
	return nil
}

// DropTables removes the cache table created by Migrate, along with its index.
func DropTables(ctx context.Context, db *sql.DB, table string) error {
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdentifier(table)); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	return nil
}
