package stratum_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sagarc03/stratum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Port uint16

type PoolConfig struct {
	MinSize   int `default:"1" validate:"min=0"`
	TimeoutMS int `stratum:"timeout_ms" default:"5000"`
}

type DatabaseConfig struct {
	URL      string     `usage:"connection string"`
	Password string     `stratum:",secret"`
	Pool     PoolConfig `stratum:",flatten,prefix=database_pool"`
}

type Common struct {
	Debug bool `default:"false"`
}

type AppConfig struct {
	Common
	Host       string        `validate:"hostname"`
	Port       Port          `default:"8080" validate:"min=1"`
	Timeout    time.Duration `default:"30s"`
	Tags       []string      `default:"a,b"`
	InstanceID string        `stratum:",cache,generate=uuid"`
	Database   DatabaseConfig
	Client     *int   `stratum:"-"`
	Runtime    string `stratum:",skip"`
}

func TestSchemaFor_Derivation(t *testing.T) {
	s, err := stratum.SchemaFor[AppConfig]()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"debug",
		"host",
		"port",
		"timeout",
		"tags",
		"instance_id",
		"database.url",
		"database.password",
		"database_pool_min_size",
		"database_pool_timeout_ms",
		"runtime",
	}, leafKeys(s))

	port, _ := s.Leaf("port")
	assert.Equal(t, stratum.Uint16, port.Type)
	assert.Equal(t, "min=1", port.Validate)
	assert.False(t, port.Required)

	host, _ := s.Leaf("host")
	assert.True(t, host.Required)

	id, _ := s.Leaf("instance_id")
	assert.True(t, id.Cacheable)
	assert.True(t, id.HasDefault)

	pw, _ := s.Leaf("database.password")
	assert.True(t, pw.Secret)

	url, _ := s.Leaf("database.url")
	assert.Equal(t, "connection string", url.Usage)

	rt, _ := s.Leaf("runtime")
	assert.True(t, rt.Skipped)

	again, err := stratum.SchemaOf(&AppConfig{})
	require.NoError(t, err)
	assert.Same(t, s, again, "schemas are memoised per type")
}

func TestSchemaOf_Errors(t *testing.T) {
	type unsupported struct {
		Ratio complex64
	}
	type badOption struct {
		Host string `stratum:",sticky"`
	}
	type badGenerator struct {
		ID string `stratum:",generate=snowflake"`
	}

	tests := []struct {
		name    string
		v       any
		wantErr string
	}{
		{name: "not a struct", v: 42, wantErr: "not a struct"},
		{name: "nil", v: nil, wantErr: "not a struct"},
		{name: "unsupported field type", v: unsupported{}, wantErr: "unsupported field type complex64"},
		{name: "unknown option", v: badOption{}, wantErr: `unknown tag option "sticky"`},
		{name: "unknown generator", v: badGenerator{}, wantErr: `unknown generator "snowflake"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stratum.SchemaOf(tt.v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, stratum.ErrSchemaDefinition))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := stratum.Load[AppConfig](context.Background(), stratum.Sources{
		Flags: stratum.MapFlags{"port": "9000"},
		File: stratum.MapFile{
			"host":     "example.com",
			"database": map[string]any{"url": "postgres://db", "password": map[string]any{"env": "DB_PASSWORD"}},
		},
		Env: stratum.MapEnv{
			"APP_DEBUG":                    "true",
			"APP_DATABASE_POOL_TIMEOUT_MS": "250",
			"DB_PASSWORD":                  "s3cret",
			"APP_RUNTIME":                  "ignored",
		},
	}, stratum.WithEnvPrefix("APP"))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, Port(9000), cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	assert.Len(t, cfg.InstanceID, 36)
	assert.Equal(t, "postgres://db", cfg.Database.URL)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 1, cfg.Database.Pool.MinSize)
	assert.Equal(t, 250, cfg.Database.Pool.TimeoutMS)
	assert.Empty(t, cfg.Runtime, "skipped fields are left untouched")
}

func TestLoad_Report(t *testing.T) {
	_, err := stratum.Load[AppConfig](context.Background(), stratum.Sources{
		Env: stratum.MapEnv{"PORT": "0"},
	})
	require.Error(t, err)

	var report *stratum.Report
	require.True(t, errors.As(err, &report))
	assert.Equal(t, []string{"host", "port", "database.url", "database.password"}, report.Keys())
}

func TestResolved_Decode(t *testing.T) {
	schema, err := stratum.SchemaFor[PoolConfig]()
	require.NoError(t, err)
	res, err := stratum.Resolve(context.Background(), schema, stratum.Sources{
		Env: stratum.MapEnv{"MIN_SIZE": "4"},
	})
	require.NoError(t, err)

	t.Run("into matching struct", func(t *testing.T) {
		var pool PoolConfig
		require.NoError(t, res.Decode(&pool))
		assert.Equal(t, PoolConfig{MinSize: 4, TimeoutMS: 5000}, pool)
	})

	t.Run("into another type", func(t *testing.T) {
		var other DatabaseConfig
		assert.Error(t, res.Decode(&other))
	})

	t.Run("into non pointer", func(t *testing.T) {
		assert.Error(t, res.Decode(PoolConfig{}))
	})

	t.Run("schema without struct", func(t *testing.T) {
		plain := stratum.MustSchema(stratum.Scalar("min_size", stratum.Int, stratum.WithDefault("1")))
		r, err := stratum.Validate(plain, stratum.Merge(plain))
		require.NoError(t, err)
		var pool PoolConfig
		assert.Error(t, r.Decode(&pool))
	})
}
