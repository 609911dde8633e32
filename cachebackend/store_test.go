package cachebackend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum/cachebackend"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     cachebackend.Config
		wantNil bool
		wantErr error
	}{
		{name: "none", cfg: cachebackend.Config{Type: "none"}, wantNil: true},
		{name: "empty type disables caching", cfg: cachebackend.Config{}, wantNil: true},
		{name: "memory", cfg: cachebackend.Config{Type: "memory"}},
		{name: "file", cfg: cachebackend.Config{Type: "file", Path: filepath.Join(dir, "cache.yaml")}},
		{name: "sqlite", cfg: cachebackend.Config{Type: "sqlite", DSN: filepath.Join(dir, "cache.db")}},
		{name: "unknown", cfg: cachebackend.Config{Type: "redis"}, wantErr: cachebackend.ErrUnsupportedBackend},
		{name: "bad file format", cfg: cachebackend.Config{Type: "file", Path: filepath.Join(dir, "cache.ini")}, wantErr: cachebackend.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, cleanup, err := cachebackend.New(ctx, tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer cleanup()

			if tt.wantNil {
				assert.Nil(t, store)
				return
			}

			require.NoError(t, store.PutAll(ctx, map[string]string{"host": "localhost"}))
			v, ok, err := store.Get(ctx, "host")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "localhost", v)
		})
	}
}
