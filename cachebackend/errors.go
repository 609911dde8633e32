package cachebackend

import "errors"

var (
	// ErrUnsupportedBackend is returned by New for an unknown Config.Type.
	ErrUnsupportedBackend = errors.New("unsupported cache backend")
	// ErrUnsupportedFormat is returned for a cache file whose extension is not yaml, yml, toml or json.
	ErrUnsupportedFormat = errors.New("unsupported cache file format")
)
