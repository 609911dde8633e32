package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/cachebackend"
	"github.com/sagarc03/stratum/config"
	"github.com/sagarc03/stratum/source"
)

var errSchemaRequired = errors.New("--schema is required")

// target describes the application configuration being resolved, as opposed to the
// settings of stratum itself.
type target struct {
	schemaPath   string
	files        []string
	envPrefix    string
	dotenv       []string
	overrides    []string
	noCacheWrite bool
}

func (t *target) registerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&t.schemaPath, "schema", "", "schema definition file (YAML)")
	fs.StringSliceVarP(&t.files, "file", "f", nil, "configuration file(s); later files override earlier ones")
	fs.StringVar(&t.envPrefix, "env-prefix", "", "prefix of environment variable names, ex: APP")
	fs.StringSliceVar(&t.dotenv, "dotenv", nil, ".env file(s) consulted after the process environment")
	fs.StringArrayVar(&t.overrides, "set", nil, "override a value, ex: --set database.port=5433 (repeatable)")
	fs.BoolVar(&t.noCacheWrite, "no-cache-write", false, "do not write cacheable values back to the cache")
}

func (t *target) schema() (*stratum.Schema, error) {
	if t.schemaPath == "" {
		return nil, errSchemaRequired
	}
	schema, err := stratum.LoadSchemaFile(t.schemaPath)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return schema, nil
}

func (t *target) resolver(schema *stratum.Schema) *stratum.Resolver {
	opts := []stratum.Option{stratum.WithEnvPrefix(t.envPrefix)}
	if t.noCacheWrite {
		opts = append(opts, stratum.WithoutCacheWrite())
	}
	return stratum.NewResolver(schema, opts...)
}

// sources builds the collectors. A nil cache disables the cache layer.
func (t *target) sources(cache stratum.CacheStore) (stratum.Sources, error) {
	flags, err := source.ParseOverrides(t.overrides)
	if err != nil {
		return stratum.Sources{}, err
	}

	src := stratum.Sources{Flags: flags, Env: stratum.OSEnv{}}
	if len(t.files) > 0 {
		src.File = source.File{Paths: t.files}
	}
	if len(t.dotenv) > 0 {
		env, err := source.LoadDotEnv(nil, t.dotenv...)
		if err != nil {
			return stratum.Sources{}, err
		}
		src.Env = env
	}
	if cache != nil {
		src.Cache = cache
	}
	return src, nil
}

// openCache connects the cache backend named by the stratum settings in ctx. The
// returned store is nil when caching is disabled.
func openCache(ctx context.Context) (cachebackend.Store, func(), error) {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := cachebackend.New(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	return store, closeStore, nil
}
