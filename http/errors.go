package http

import "errors"

// ErrUnauthorized is returned when authentication fails.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotReady is returned when the service holds no resolved configuration yet.
var ErrNotReady = errors.New("configuration not resolved")
