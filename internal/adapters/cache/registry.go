package cache

import (
	"path/filepath"
	"sync"

	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry maps cache directory paths to store instances, created lazily on
// first access and reused for the process lifetime. All callers referencing
// the same directory observe the same in-memory bookkeeping, in particular
// the invalidation set. The registry is explicit and injectable rather than
// package-global state.
type Registry struct {
	log ports.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

var _ ports.CacheRegistry = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry(log ports.Logger) *Registry {
	return &Registry{
		log:    log,
		stores: make(map[string]*Store),
	}
}

// Get returns the store for dir, creating it on first access. Safe under
// concurrent first access from multiple tasks: exactly one store is created
// per distinct directory.
func (r *Registry) Get(dir string) (ports.Cache, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve cache directory"), "dir", dir)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[abs]; ok {
		return s, nil
	}
	s := NewStore(abs, r.log)
	r.stores[abs] = s
	return s, nil
}
