package source

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

// File is a stratum.FileSource that reads TOML, YAML or JSON configuration with viper.
//
// With Paths set, every file is read in order and later files override earlier ones.
// Otherwise, when Name is set, viper searches Dirs for Name.{toml,yaml,yml,json,...}.
type File struct {
	Paths []string
	// Type forces the format when file extensions are missing or misleading.
	Type string

	Name string
	Dirs []string

	// Optional makes missing files supply nothing instead of failing.
	Optional bool
}

// Load implements stratum.FileSource.
func (f File) Load() (map[string]any, error) {
	v := viper.New()
	if f.Type != "" {
		v.SetConfigType(f.Type)
	}

	if len(f.Paths) == 0 {
		if f.Name == "" {
			return map[string]any{}, nil
		}
		return f.search(v)
	}

	loaded := 0
	for _, path := range f.Paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && f.Optional {
			slog.Debug("config file not found, skipping", "file", path)
			continue
		}

		v.SetConfigFile(path)
		var err error
		if loaded == 0 {
			err = v.ReadInConfig()
		} else {
			err = v.MergeInConfig()
		}
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		loaded++
	}
	return v.AllSettings(), nil
}

func (f File) search(v *viper.Viper) (map[string]any, error) {
	v.SetConfigName(f.Name)
	dirs := f.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && f.Optional {
			slog.Debug("no config file found", "name", f.Name, "dirs", dirs)
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", f.Name, err)
	}
	slog.Debug("config file found", "file", v.ConfigFileUsed())
	return v.AllSettings(), nil
}
