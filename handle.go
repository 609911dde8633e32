package stratum

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Handle shares a resolved configuration between goroutines and lets it be re-resolved
// in place. Readers never block; Reload calls are serialized and a failed reload keeps
// the previous configuration.
type Handle struct {
	resolver *Resolver
	sources  func() Sources

	mu      sync.Mutex
	current atomic.Pointer[Resolved]
}

// NewHandle resolves once and returns a Handle holding the result. sources is called on
// every resolution so collectors that read the environment or files observe changes.
func NewHandle(ctx context.Context, resolver *Resolver, sources func() Sources) (*Handle, error) {
	if resolver == nil || sources == nil {
		return nil, errors.New("new handle: resolver and sources are required")
	}
	h := &Handle{resolver: resolver, sources: sources}
	if _, err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Current returns the latest successfully resolved configuration.
func (h *Handle) Current() *Resolved {
	return h.current.Load()
}

// Reload resolves again. On success the new configuration replaces the current one and
// is returned; on failure the current one is kept and the error is returned.
func (h *Handle) Reload(ctx context.Context) (*Resolved, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.resolver.Resolve(ctx, h.sources())
	if err != nil {
		return nil, err
	}
	h.current.Store(res)
	return res, nil
}
