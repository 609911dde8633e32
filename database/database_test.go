package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum/database"
)

func TestConnect_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "cache.db")

	store, cleanup, err := database.Connect(ctx, database.Config{Type: "sqlite", DSN: dsn})
	require.NoError(t, err)

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.PutAll(ctx, map[string]string{"host": "localhost"}))
	cleanup()

	// a second connection sees the persisted value
	store, cleanup, err = database.Connect(ctx, database.Config{Type: "sqlite", DSN: dsn, Table: database.DefaultTable})
	require.NoError(t, err)
	defer cleanup()

	v, ok, err := store.Get(ctx, "host")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "localhost", v)
}

func TestConnect_SQLiteMemory(t *testing.T) {
	ctx := context.Background()

	store, cleanup, err := database.Connect(ctx, database.Config{Type: "sqlite", DSN: ":memory:", Table: "custom_cache"})
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, store.PutAll(ctx, map[string]string{"a": "1", "b": "2"}))
	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestConnect_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{
			name:    "unsupported type",
			cfg:     database.Config{Type: "mysql", DSN: "x"},
			wantErr: "unsupported database type: mysql",
		},
		{
			name:    "invalid table",
			cfg:     database.Config{Type: "sqlite", DSN: ":memory:", Table: "1bad"},
			wantErr: "invalid table name: 1bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := database.Connect(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
