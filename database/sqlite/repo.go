// Package sqlite implements the stratum cache store using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/database/internal"
)

// Repo is a stratum.CacheStore and stratum.CacheAdmin backed by one SQLite table.
type Repo struct {
	db        *sql.DB
	tableName string
}

// NewRepo returns a repo over table. The table must already be migrated.
func NewRepo(db *sql.DB, table string) (*Repo, error) {
	if !internal.IsValidTableName(table) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", table)
	}
	return &Repo{db: db, tableName: quoteIdentifier(table)}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, r.tableName) //nolint:gosec // G201: table name is validated

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get: %w", err)
	}
	return value, true, nil
}

// PutAll upserts every value in a single transaction.
func (r *Repo) PutAll(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put all: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`, r.tableName)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("put all: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), key, value, now, now); err != nil {
			return fmt.Errorf("put all: upsert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put all: commit: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]stratum.CacheEntry, error) {
	query := fmt.Sprintf(`SELECT key, value, updated_at FROM %s ORDER BY key`, r.tableName) //nolint:gosec // G201: table name is validated

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []stratum.CacheEntry{}
	for rows.Next() {
		var e stratum.CacheEntry
		var updatedAt string
		if err := rows.Scan(&e.Key, &e.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("list: parse updated_at: %w", err)
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
	query := fmt.Sprintf(`DELETE FROM %s`, r.tableName) //nolint:gosec // G201: table name is validated
	args := make([]any, len(keys))
	if len(keys) > 0 {
		placeholders := make([]string, len(keys))
		for i, k := range keys {
			placeholders[i] = "?"
			args[i] = k
		}
		query += fmt.Sprintf(` WHERE key IN (%s)`, strings.Join(placeholders, ", "))
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
