package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/stratum/database/internal"
)

// SQLite reports declared column types, so these match the CREATE TABLE in Migrate.
var cacheColumns = []internal.Column{
	{Name: "id", Type: "text"},
	{Name: "key", Type: "text"},
	{Name: "value", Type: "text"},
	{Name: "created_at", Type: "text"},
	{Name: "updated_at", Type: "text"},
}

// ValidateSchema checks that the cache table exists with the expected columns.
func ValidateSchema(ctx context.Context, db *sql.DB, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	columns, err := tableColumns(ctx, db, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}
	if len(columns) == 0 {
		return fmt.Errorf("validate schema: table %s does not exist", table)
	}

	if err := internal.CompareColumns(table, cacheColumns, columns); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	return nil
}

// tableColumns lists the columns of table; a missing table has none.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]internal.Column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []internal.Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, dataType   string
			dfltValue        sql.NullString
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, internal.Column{Name: name, Type: dataType, Nullable: notNull == 0})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return columns, nil
}
