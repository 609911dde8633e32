package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(context.Background(), nil, nil, stratum.MapEnv{})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Cache.Type)
	assert.Equal(t, ".stratum/cache.yaml", cfg.Cache.Path)
	assert.Equal(t, "stratum_cache", cfg.Cache.Table)
	assert.Empty(t, cfg.Cache.DSN)
	assert.Equal(t, uint16(5710), cfg.Server.Port)
	assert.Empty(t, cfg.Server.Token)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST", "OPTIONS"}, cfg.CORS.AllowedMethods)
	assert.Empty(t, cfg.CORS.ExposedHeaders)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, "stratum.yaml", `
log:
  level: debug
  format: json
cache:
  type: postgres
  dsn: postgres://localhost/test
  table: custom_cache
server:
  port: 9000
  shutdown_timeout: 3s
cors:
  enabled: true
  allowed_origins: [https://example.com]
`)

	cfg, err := config.Load(context.Background(), []string{path}, nil, stratum.MapEnv{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "postgres", cfg.Cache.Type)
	assert.Equal(t, "postgres://localhost/test", cfg.Cache.DSN)
	assert.Equal(t, "custom_cache", cfg.Cache.Table)
	assert.Equal(t, uint16(9000), cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	base := writeConfig(t, "base.toml", `
[log]
level = "warn"

[server]
port = 7000
`)
	override := writeConfig(t, "override.json", `{"server": {"port": 7001}}`)

	cfg, err := config.Load(context.Background(), []string{base, override}, nil, stratum.MapEnv{})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, uint16(7001), cfg.Server.Port)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "stratum.yaml", "log:\n  level: warn\nserver:\n  port: 7000\n")
	env := stratum.MapEnv{
		"STRATUM_LOG_LEVEL":    "error",
		"STRATUM_SERVER_PORT":  "7100",
		"STRATUM_SERVER_TOKEN": "from-env",
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--server-port", "7200"}))

	cfg, err := config.Load(context.Background(), []string{path}, flags, env)
	require.NoError(t, err)

	assert.Equal(t, uint16(7200), cfg.Server.Port, "flag beats file and env")
	assert.Equal(t, "warn", cfg.Log.Level, "file beats env")
	assert.Equal(t, "from-env", cfg.Server.Token, "env beats default")
}

func TestLoad_Invalid(t *testing.T) {
	env := stratum.MapEnv{
		"STRATUM_LOG_LEVEL":   "verbose",
		"STRATUM_CACHE_TYPE":  "redis",
		"STRATUM_SERVER_PORT": "0",
	}

	_, err := config.Load(context.Background(), nil, nil, env)
	require.Error(t, err)
	assert.ErrorIs(t, err, stratum.ErrInvalidValue)

	var report *stratum.Report
	require.True(t, errors.As(err, &report))
	assert.Equal(t, []string{"log.level", "cache.type", "server.port"}, report.Invalid())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(context.Background(), []string{filepath.Join(t.TempDir(), "nope.yaml")}, nil, stratum.MapEnv{})
	require.Error(t, err)
	assert.ErrorIs(t, err, stratum.ErrSourceUnavailable)
}

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)

	for _, name := range []string{"log-level", "cache-type", "cache-dsn", "server-port", "server-shutdown-timeout", "cors-allowed-origins"} {
		assert.NotNil(t, fs.Lookup(name), name)
	}
	assert.Contains(t, fs.Lookup("log-level").Usage, "STRATUM_LOG_LEVEL")
}

func TestFromContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{Log: config.LogConfig{Level: "debug"}}
	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
