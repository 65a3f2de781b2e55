// Package ports defines the interfaces between the bundler core and its
// adapters: cache storage, parsing, code generation, resolution, logging,
// and telemetry.
package ports

import (
	"context"
	"io"
)

// Cache is a content-addressed store for structured values and binary
// streams. Keys are opaque content hashes computed by the caller; a given
// key is never rewritten with different content, so concurrent writers to
// the same key are racing but idempotent.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type Cache interface {
	// EnsureLayout creates the cache root and all 256 shard directories.
	// Idempotent; fails only on unrecoverable filesystem errors.
	EnsureLayout(ctx context.Context) error

	// Get reads the structured entry for key into out. Returns an error
	// matching domain.ErrCacheMiss when the entry does not exist; any other
	// read failure is propagated.
	Get(key string, out any) error

	// Set serializes v and writes it atomically under key. A failed write
	// is logged and reported as domain.ErrCacheWrite; callers must treat it
	// as non-fatal to the build.
	Set(key string, v any) error

	// GetStream opens the blob entry for reading. The caller consumes or
	// closes the stream.
	GetStream(key string) (io.ReadCloser, error)

	// SetStream pipes r into the blob entry for key and returns the key
	// when the write completes. On any error no partial blob is left
	// readable.
	SetStream(key string, r io.Reader) (string, error)

	// Invalidate marks key so the next read reports a miss.
	Invalidate(key string)

	// Dir returns the cache root directory.
	Dir() string
}

// CacheRegistry maps cache directories to cache instances. All callers
// referencing the same directory observe the same instance and therefore
// the same in-memory bookkeeping.
type CacheRegistry interface {
	// Get returns the cache for dir, creating it on first access. Exactly
	// one instance is created per distinct directory even under concurrent
	// first access.
	Get(dir string) (Cache, error)
}
