package source_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/source"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, ".env", "APP_HOST=from-file\nAPP_PORT=1\n# comment\nexport APP_DEBUG=true\n")
	second := writeFile(t, dir, ".env.local", "APP_PORT=2\n")

	base := stratum.MapEnv{"APP_HOST": "from-env"}
	env, err := source.LoadDotEnv(base, first, second)
	require.NoError(t, err)
	assert.Equal(t, 3, env.Len())

	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{name: "real environment wins", key: "APP_HOST", want: "from-env", wantOK: true},
		{name: "later file wins", key: "APP_PORT", want: "2", wantOK: true},
		{name: "export prefix", key: "APP_DEBUG", want: "true", wantOK: true},
		{name: "unknown", key: "APP_NOPE", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := env.LookupEnv(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestLoadDotEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv("STRATUM_TEST_VALUE", "process")
	path := writeFile(t, t.TempDir(), ".env", "STRATUM_TEST_VALUE=file\n")

	env, err := source.LoadDotEnv(nil, path)
	require.NoError(t, err)

	v, ok := env.LookupEnv("STRATUM_TEST_VALUE")
	assert.True(t, ok)
	assert.Equal(t, "process", v)
}

func TestLoadDotEnv_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := source.LoadDotEnv(nil, filepath.Join(dir, "missing.env"))
	assert.Error(t, err)

	broken := writeFile(t, dir, "broken.env", "NOT A VALID LINE\n")
	_, err = source.LoadDotEnv(nil, broken)
	assert.Error(t, err)
}
