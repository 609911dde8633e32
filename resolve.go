package stratum

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithEnvPrefix sets the prefix of environment variable names, ex: "APP" makes
// database.pool.min_size read APP_DATABASE_POOL_MIN_SIZE.
func WithEnvPrefix(prefix string) Option {
	return func(r *Resolver) {
		r.envPrefix = prefix
	}
}

// WithLogger sets the logger used for debug tracing and cache warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithoutCacheWrite disables the CacheWriter step. The cache is still read.
func WithoutCacheWrite() Option {
	return func(r *Resolver) {
		r.skipCacheWrite = true
	}
}

// Resolver runs the resolution pipeline for one schema. It holds no per-call state and is
// safe for concurrent use as long as the sources passed to Resolve are.
type Resolver struct {
	schema         *Schema
	envPrefix      string
	logger         *slog.Logger
	skipCacheWrite bool
}

// NewResolver returns a Resolver for schema.
func NewResolver(schema *Schema, opts ...Option) *Resolver {
	r := &Resolver{
		schema: schema,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve is shorthand for NewResolver(schema, opts...).Resolve(ctx, src).
func Resolve(ctx context.Context, schema *Schema, src Sources, opts ...Option) (*Resolved, error) {
	return NewResolver(schema, opts...).Resolve(ctx, src)
}

// Schema returns the schema the resolver was built for.
func (r *Resolver) Schema() *Schema {
	return r.schema
}

// Collect gathers one Document per source, in precedence order, along with the problems
// found while resolving file indirections. A source that cannot be read at all returns a
// *SourceError.
func (r *Resolver) Collect(ctx context.Context, src Sources) ([]Document, []*FieldError, error) {
	flags := map[string]string{}
	env := map[string]string{}
	for _, leaf := range r.schema.leaves {
		if leaf.Skipped {
			continue
		}
		if src.Flags != nil {
			if v, ok := src.Flags.Flag(leaf.Key); ok {
				flags[leaf.Key] = v
			}
		}
		if src.Env != nil {
			if v, ok := src.Env.LookupEnv(leaf.EnvName(r.envPrefix)); ok {
				env[leaf.Key] = v
			}
		}
	}

	fileDoc := NewDocument(SourceFile, nil)
	var problems []*FieldError
	if src.File != nil {
		raw, err := src.File.Load()
		if err != nil {
			return nil, nil, &SourceError{Source: SourceFile, Err: err}
		}
		fileDoc, problems = ResolveIndirections(r.schema, raw, src.Env)
	}

	cache, err := r.readCache(ctx, src.Cache)
	if err != nil {
		return nil, nil, &SourceError{Source: SourceCache, Err: err}
	}

	docs := []Document{
		NewDocument(SourceFlags, flags),
		fileDoc,
		NewDocument(SourceEnv, env),
		NewDocument(SourceCache, cache),
	}
	return docs, problems, nil
}

// readCache returns the cached values of the cacheable leaves.
func (r *Resolver) readCache(ctx context.Context, store CacheStore) (map[string]string, error) {
	cache := map[string]string{}
	if store == nil {
		return cache, nil
	}

	var keys []string
	for _, leaf := range r.schema.leaves {
		if leaf.Cacheable && !leaf.Skipped {
			keys = append(keys, leaf.Key)
		}
	}
	if len(keys) == 0 {
		return cache, nil
	}

	if bulk, ok := store.(CacheReader); ok {
		values, err := bulk.GetMany(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("get cached values: %w", err)
		}
		for _, k := range keys {
			if v, ok := values[k]; ok {
				cache[k] = v
			}
		}
		return cache, nil
	}

	for _, k := range keys {
		v, ok, err := store.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", k, err)
		}
		if ok {
			cache[k] = v
		}
	}
	return cache, nil
}

// Resolve collects every source, merges them by precedence, validates the result and,
// on success, writes cacheable values back to the cache store.
//
// The error is a *Report when fields are missing or invalid, or a *SourceError when a
// source could not be read. A failed cache write does not fail the call; it is logged
// and available from Resolved.Warnings.
func (r *Resolver) Resolve(ctx context.Context, src Sources) (*Resolved, error) {
	logger := r.logger.With("resolution", uuid.NewString())

	docs, problems, err := r.Collect(ctx, src)
	if err != nil {
		logger.Debug("configuration source unavailable", "err", err)
		return nil, err
	}
	for _, d := range docs {
		logger.Debug("configuration source collected", "source", d.Kind().String(), "keys", d.Len())
	}

	eff := Merge(r.schema, docs...)

	res, err := validateEffective(r.schema, eff, problems)
	if err != nil {
		logger.Debug("configuration rejected", "problems", err.(*Report).Len())
		return nil, err
	}

	if !r.skipCacheWrite {
		w := CacheWriter{Store: src.Cache, Logger: logger}
		if err := w.Write(ctx, r.schema, res); err != nil {
			res.warnings = append(res.warnings, err)
		}
	}

	logger.Debug("configuration resolved", "values", res.Len())
	return res, nil
}
