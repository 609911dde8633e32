package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/stratum/database/internal"
)

var cacheColumns = []internal.Column{
	{Name: "id", Type: "uuid"},
	{Name: "key", Type: "text"},
	{Name: "value", Type: "text"},
	{Name: "created_at", Type: "timestamp with time zone"},
	{Name: "updated_at", Type: "timestamp with time zone"},
}

// ValidateSchema checks that the cache table exists in the current schema with the
// expected columns.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	columns, err := tableColumns(ctx, pool, table)
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

func tableColumns(ctx context.Context, pool *pgxpool.Pool, table string) ([]internal.Column, error) {
	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.Column, error) {
		var c internal.Column
		err := row.Scan(&c.Name, &c.Type, &c.Nullable)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan columns: %w", err)
	}
	return columns, nil
}
