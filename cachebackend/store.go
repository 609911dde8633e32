// Package cachebackend provides stratum.CacheStore implementations and selects one
// from configuration.
package cachebackend

import (
	"context"
	"fmt"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/database"
)

// Store is a cache store that can also be listed and pruned.
type Store interface {
	stratum.CacheStore
	stratum.CacheAdmin
}

var (
	_ stratum.CacheReader = (*FileStore)(nil)
	_ stratum.CacheReader = (*MapStore)(nil)
)

// Config selects and configures the cache backend.
type Config struct {
	// Type is one of "none", "memory", "file", "sqlite" or "postgres".
	Type  string `stratum:"type" default:"file" validate:"oneof=none memory file sqlite postgres" usage:"cache backend"`
	// Path is the cache file for the file backend.
	Path  string `stratum:"path" default:".stratum/cache.yaml" usage:"cache file (.yaml, .yml, .toml or .json)"`
	// DSN is the connection string for the sqlite and postgres backends.
	DSN   string `stratum:"dsn,secret" default:"" usage:"database connection string"`
	// Table is the cache table for the sqlite and postgres backends.
	Table string `stratum:"table" default:"stratum_cache" usage:"database cache table"`
}

// New opens the configured backend. The "none" backend returns a nil Store, which
// disables caching. The returned cleanup function releases the backend.
func New(ctx context.Context, cfg Config) (Store, func(), error) {
	switch cfg.Type {
	case "none", "":
		return nil, func() {}, nil
	case "memory":
		return NewMapStore(nil), func() {}, nil
	case "file":
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file cache: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case "sqlite", "postgres":
		s, cleanup, err := database.Connect(ctx, database.Config{Type: cfg.Type, DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, nil, err
		}
		return s, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Type)
	}
}
