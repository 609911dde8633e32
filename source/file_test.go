package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/source"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `
host = "example.com"
port = 9000

[database]
url = { env = "DB_URL" }

[database.pool]
min_size = 3
`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `
host: example.com
port: 9000
database:
  url: {env: DB_URL}
  pool:
    min_size: 3
`,
		},
		{
			name:    "json",
			file:    "config.json",
			content: `{"host": "example.com", "port": 9000, "database": {"url": {"env": "DB_URL"}, "pool": {"min_size": 3}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			schema := testSchema(t)

			res, err := stratum.Resolve(context.Background(), schema, stratum.Sources{
				File: source.File{Paths: []string{path}},
				Env:  stratum.MapEnv{"DB_URL": "postgres://db"},
			})
			require.NoError(t, err)

			assert.Equal(t, "example.com", stratum.MustGet[string](res, "host"))
			assert.Equal(t, uint16(9000), stratum.MustGet[uint16](res, "port"))
			assert.Equal(t, "postgres://db", stratum.MustGet[string](res, "database.url"))
			assert.Equal(t, 3, stratum.MustGet[int](res, "database.pool.min_size"))
		})
	}
}

func TestFile_Merge(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "host: base\nport: 1\n")
	override := writeFile(t, dir, "override.toml", "port = 2\n")

	raw, err := source.File{Paths: []string{base, override}}.Load()
	require.NoError(t, err)
	assert.Equal(t, "base", raw["host"])
	assert.EqualValues(t, 2, raw["port"])
}

func TestFile_Missing(t *testing.T) {
	dir := t.TempDir()
	present := writeFile(t, dir, "present.yaml", "host: a\n")
	missing := filepath.Join(dir, "missing.yaml")

	t.Run("required", func(t *testing.T) {
		_, err := source.File{Paths: []string{missing}}.Load()
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("optional", func(t *testing.T) {
		raw, err := source.File{Paths: []string{missing, present}, Optional: true}.Load()
		require.NoError(t, err)
		assert.Equal(t, "a", raw["host"])
	})

	t.Run("nothing configured", func(t *testing.T) {
		raw, err := source.File{}.Load()
		require.NoError(t, err)
		assert.Empty(t, raw)
	})
}

func TestFile_Search(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stratum.yaml", "host: found\n")

	raw, err := source.File{Name: "stratum", Dirs: []string{dir}}.Load()
	require.NoError(t, err)
	assert.Equal(t, "found", raw["host"])

	raw, err = source.File{Name: "absent", Dirs: []string{dir}, Optional: true}.Load()
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = source.File{Name: "absent", Dirs: []string{dir}}.Load()
	assert.Error(t, err)
}

func TestFile_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.toml", "host = \n")

	_, err := stratum.Resolve(context.Background(), testSchema(t), stratum.Sources{
		File: source.File{Paths: []string{path}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, stratum.ErrSourceUnavailable))
}
