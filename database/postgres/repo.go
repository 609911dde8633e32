// Package postgres implements the stratum cache store using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/database/internal"
)

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, table string) (*Repo, error) {
	if !internal.IsValidTableName(table) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", table)
	}

	return &Repo{pool: pool, tableName: pgx.Identifier{table}.Sanitize()}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, r.tableName)

	var value string
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get: %w", err)
	}

	return value, true, nil
}

// PutAll upserts every value in one transaction, sent as a single batch.
func (r *Repo) PutAll(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = NOW()
	`, r.tableName)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range values {
			batch.Queue(query, key, value)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("put all: %w", err)
	}

	return nil
}

func (r *Repo) List(ctx context.Context) ([]stratum.CacheEntry, error) {
	query := fmt.Sprintf(`SELECT key, value, updated_at FROM %s ORDER BY key`, r.tableName)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	entries := []stratum.CacheEntry{}
	for rows.Next() {
		var e stratum.CacheEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return entries, nil
}

// Delete removes the given keys, or every entry when no key is given.
func (r *Repo) Delete(ctx context.Context, keys ...string) error {
	var err error
	if len(keys) == 0 {
		_, err = r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, r.tableName))
	} else {
		_, err = r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ANY($1)`, r.tableName), keys)
	}
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}
