package cachebackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/stratum"
)

type fileEntry struct {
	Value     string    `json:"value" yaml:"value" toml:"value"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}

type cacheFile struct {
	Entries map[string]fileEntry `json:"entries" yaml:"entries" toml:"entries"`
}

// FileStore keeps cached values in a single YAML, TOML or JSON file chosen by
// extension. Every write replaces the file atomically through a temp file and rename.
type FileStore struct {
	root   *os.Root
	name   string
	format string
	mu     sync.Mutex
}

// NewFileStore opens a file store at path, creating its directory if needed. The file
// itself is created on the first write. Close releases the directory handle.
func NewFileStore(path string) (*FileStore, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache directory: %w", err)
	}

	return &FileStore{root: root, name: filepath.Base(path), format: format}, nil
}

func formatOf(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "yaml", "yml":
		return "yaml", nil
	case "toml", "json":
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Close releases the directory handle.
func (s *FileStore) Close() error {
	return s.root.Close()
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", false, err
	}
	e, ok := entries[key]
	return e.Value, ok, nil
}

// GetMany reads the file once for every key.
func (s *FileStore) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if e, ok := entries[k]; ok {
			out[k] = e.Value
		}
	}
	return out, nil
}

func (s *FileStore) PutAll(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for k, v := range values {
		entries[k] = fileEntry{Value: v, UpdatedAt: now}
	}
	return s.write(entries)
}

func (s *FileStore) List(ctx context.Context) ([]stratum.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}

	list := make([]stratum.CacheEntry, 0, len(entries))
	for _, k := range slices.Sorted(maps.Keys(entries)) {
		e := entries[k]
		list = append(list, stratum.CacheEntry{Key: k, Value: e.Value, UpdatedAt: e.UpdatedAt})
	}
	return list, nil
}

func (s *FileStore) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(keys) == 0 {
		return s.write(map[string]fileEntry{})
	}

	entries, err := s.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(entries, k)
	}
	return s.write(entries)
}

// read returns the entries on disk. A missing file is an empty cache.
func (s *FileStore) read() (map[string]fileEntry, error) {
	data, err := s.root.ReadFile(s.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]fileEntry{}, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	var f cacheFile
	switch s.format {
	case "yaml":
		err = yaml.Unmarshal(data, &f)
	case "toml":
		err = toml.Unmarshal(data, &f)
	case "json":
		if len(bytes.TrimSpace(data)) > 0 {
			err = json.Unmarshal(data, &f)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}

	if f.Entries == nil {
		f.Entries = map[string]fileEntry{}
	}
	return f.Entries, nil
}

func (s *FileStore) encode(entries map[string]fileEntry) ([]byte, error) {
	f := cacheFile{Entries: entries}
	switch s.format {
	case "yaml":
		return yaml.Marshal(f)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// write replaces the cache file atomically using a temp file and rename.
func (s *FileStore) write(entries map[string]fileEntry) error {
	data, err := s.encode(entries)
	if err != nil {
		return fmt.Errorf("encode cache file: %w", err)
	}

	tmpFile := tmpFileName()
	t, err := s.root.OpenFile(tmpFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("could not open temp file: %w", err)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := t.Write(data); err != nil {
		return fmt.Errorf("could not write cache file: %w", err)
	}

	if err := t.Sync(); err != nil {
		return fmt.Errorf("could not sync written file: %w", err)
	}

	if err := t.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}

	if err := s.root.Rename(tmpFile, s.name); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	success = true
	return nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
