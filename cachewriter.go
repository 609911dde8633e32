package stratum

import (
	"context"
	"fmt"
	"log/slog"
)

// CacheWriter persists the cacheable values of a successful resolution so later runs that
// lack the original source can still recover them from the cache.
type CacheWriter struct {
	Store  CacheStore
	Logger *slog.Logger
}

// Eligible returns the key to raw value map CacheWriter would persist for r: every
// cacheable leaf whose value did not already come from the cache. Defaults count, which
// is what keeps generated defaults stable between runs.
func (w CacheWriter) Eligible(schema *Schema, r *Resolved) map[string]string {
	out := map[string]string{}
	for _, leaf := range schema.leaves {
		if !leaf.Cacheable {
			continue
		}
		v, ok := r.Get(leaf.Key)
		if !ok || v.Source == SourceCache {
			continue
		}
		out[leaf.Key] = v.Raw
	}
	return out
}

// Write persists the eligible values of r with a single PutAll call. A failure is logged
// at warn level and returned wrapped in ErrCacheWrite; callers treat it as a warning.
func (w CacheWriter) Write(ctx context.Context, schema *Schema, r *Resolved) error {
	if w.Store == nil {
		return nil
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	values := w.Eligible(schema, r)
	if len(values) == 0 {
		return nil
	}

	if err := w.Store.PutAll(ctx, values); err != nil {
		logger.Warn("failed to write configuration cache", "keys", len(values), "err", err)
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	logger.Debug("configuration cache updated", "keys", len(values))
	return nil
}
