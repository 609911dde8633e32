package stratum

import (
	"context"
	"maps"
	"os"
	"time"
)

// FlagSource yields the value of a command-line flag for a leaf key. Only flags the user
// actually set should be reported.
type FlagSource interface {
	Flag(key string) (string, bool)
}

// FileSource loads a configuration document. The result may be nested tables, flat dotted
// keys or a mix.
type FileSource interface {
	Load() (map[string]any, error)
}

// EnvSource looks up an environment variable.
type EnvSource interface {
	LookupEnv(name string) (string, bool)
}

// CacheStore persists resolved values between runs. Implementations must be safe for
// concurrent use; concurrent PutAll calls resolve with last-writer-wins.
type CacheStore interface {
	// Get returns the cached raw value for key. A missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	// PutAll upserts every key in values.
	PutAll(ctx context.Context, values map[string]string) error
}

// CacheReader is implemented by cache stores that can read many keys in one pass. The
// resolver prefers it over one Get per cacheable leaf.
type CacheReader interface {
	// GetMany returns the cached raw values of keys; missing keys are left out.
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
}

// CacheEntry is one persisted value.
type CacheEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CacheAdmin is implemented by cache stores that can be inspected and pruned.
type CacheAdmin interface {
	// List returns every entry ordered by key.
	List(ctx context.Context) ([]CacheEntry, error)
	// Delete removes the given keys; with no keys it removes everything.
	Delete(ctx context.Context, keys ...string) error
}

// Sources bundles the four collectors of one resolution. Any of them may be nil, which
// behaves like a source that supplies nothing.
type Sources struct {
	Flags FlagSource
	File  FileSource
	Env   EnvSource
	Cache CacheStore
}

// MapFlags is a FlagSource backed by a key to value map.
type MapFlags map[string]string

// Flag implements FlagSource.
func (m MapFlags) Flag(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// FlagFunc adapts a function to FlagSource.
type FlagFunc func(key string) (string, bool)

// Flag implements FlagSource.
func (f FlagFunc) Flag(key string) (string, bool) {
	return f(key)
}

// MapFile is a FileSource that returns a copy of an in-memory document.
type MapFile map[string]any

// Load implements FileSource.
func (m MapFile) Load() (map[string]any, error) {
	return maps.Clone(m), nil
}

// FileFunc adapts a function to FileSource.
type FileFunc func() (map[string]any, error)

// Load implements FileSource.
func (f FileFunc) Load() (map[string]any, error) {
	return f()
}

// MapEnv is an EnvSource backed by a map, mostly useful in tests.
type MapEnv map[string]string

// LookupEnv implements EnvSource.
func (m MapEnv) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// OSEnv reads the process environment.
type OSEnv struct{}

// LookupEnv implements EnvSource.
func (OSEnv) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}
