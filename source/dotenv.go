package source

import (
	"fmt"
	"os"

	"github.com/subosito/gotenv"

	"github.com/sagarc03/stratum"
)

// DotEnv is a stratum.EnvSource that falls back to values read from .env files when the
// base environment does not define a variable. The real environment always wins.
type DotEnv struct {
	base   stratum.EnvSource
	values gotenv.Env
}

// LoadDotEnv parses the given .env files; later files override earlier ones. A nil base
// means the process environment.
func LoadDotEnv(base stratum.EnvSource, paths ...string) (*DotEnv, error) {
	if base == nil {
		base = stratum.OSEnv{}
	}
	values := gotenv.Env{}
	for _, path := range paths {
		env, err := parseDotEnv(path)
		if err != nil {
			return nil, err
		}
		for k, v := range env {
			values[k] = v
		}
	}
	return &DotEnv{base: base, values: values}, nil
}

func parseDotEnv(path string) (gotenv.Env, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open env file: %w", err)
	}
	defer func() { _ = f.Close() }()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}
	return env, nil
}

// LookupEnv implements stratum.EnvSource.
func (d *DotEnv) LookupEnv(name string) (string, bool) {
	if v, ok := d.base.LookupEnv(name); ok {
		return v, true
	}
	v, ok := d.values[name]
	return v, ok
}

// Len returns the number of variables read from files.
func (d *DotEnv) Len() int {
	return len(d.values)
}
