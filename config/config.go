package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/cachebackend"
	stratumhttp "github.com/sagarc03/stratum/http"
	"github.com/sagarc03/stratum/source"
)

// EnvPrefix prefixes every environment variable read for the CLI's own settings.
const EnvPrefix = "STRATUM"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the stratum CLI.
type Config struct {
	Log    LogConfig              `stratum:"log"`
	Cache  cachebackend.Config    `stratum:"cache"`
	Server ServerConfig           `stratum:"server"`
	CORS   stratumhttp.CORSConfig `stratum:"cors"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `stratum:"level" default:"info" validate:"oneof=debug info warn error" usage:"log level"`
	Format string `stratum:"format" default:"text" validate:"oneof=text json" usage:"log format"`
}

// ServerConfig holds inspection server configuration.
type ServerConfig struct {
	Port            uint16        `stratum:"port" default:"5710" validate:"min=1" usage:"inspection server port"`
	Token           string        `stratum:"token,secret" default:"" usage:"bearer token required by the inspection server"`
	ShutdownTimeout time.Duration `stratum:"shutdown_timeout" default:"10s" validate:"gt=0" usage:"graceful shutdown timeout"`
}

// Schema returns the schema derived from Config.
func Schema() *stratum.Schema {
	s, err := stratum.SchemaFor[Config]()
	if err != nil {
		panic(fmt.Sprintf("config schema: %v", err))
	}
	return s
}

// RegisterFlags defines one flag per setting on fs, ex: --log-level, --cache-type.
func RegisterFlags(fs *pflag.FlagSet) *source.Flags {
	return source.RegisterFlags(fs, Schema(), EnvPrefix)
}

// Load resolves the CLI configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > config files > env > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones); when
//     empty, an optional stratum.{yaml,toml,json} in the working directory is used
//   - flags: flag collector, usually from RegisterFlags (can be nil)
//   - env: environment collector (nil reads the process environment)
func Load(ctx context.Context, configFiles []string, flags stratum.FlagSource, env stratum.EnvSource) (*Config, error) {
	file := source.File{Paths: configFiles}
	if len(configFiles) == 0 {
		file = source.File{Name: "stratum", Dirs: []string{"."}, Optional: true}
	}
	if env == nil {
		env = stratum.OSEnv{}
	}

	cfg, err := stratum.Load[Config](ctx, stratum.Sources{
		Flags: flags,
		File:  file,
		Env:   env,
	}, stratum.WithEnvPrefix(EnvPrefix), stratum.WithoutCacheWrite())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}
