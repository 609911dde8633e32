package source

import "errors"

var (
	// ErrInvalidOverride is returned by ParseOverrides for a malformed key=value pair
	ErrInvalidOverride = errors.New("invalid override")
)
