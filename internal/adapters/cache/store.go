// Package cache implements the sharded, content-addressed disk store for
// structured pipeline artifacts and binary blobs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	extJSON = ".json"
	extBlob = ".blob"
)

var _ ports.Cache = (*Store)(nil)

// Store is one cache directory. Entries live under
// dir/<first-2-hex-chars-of-key>/<rest-of-key><ext>; spreading entries
// across 256 shard directories bounds per-directory file counts as the
// entry count grows into the hundreds of thousands.
//
// Entries are write-once-immutable: a key is never rewritten with different
// content, so no per-entry locking is needed.
type Store struct {
	dir string
	log ports.Logger

	mu          sync.Mutex
	invalidated map[string]struct{}
}

// NewStore creates a store rooted at dir. Call EnsureLayout before use.
func NewStore(dir string, log ports.Logger) *Store {
	return &Store{
		dir:         filepath.Clean(dir),
		log:         log,
		invalidated: make(map[string]struct{}),
	}
}

// Dir returns the cache root directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureLayout creates the root directory and all 256 two-hex-character
// shard subdirectories. The shard creations are issued concurrently and the
// call waits for all of them, or the first hard failure. Idempotent.
func (s *Store) EnsureLayout(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache root"), "dir", s.dir)
	}

	g, _ := errgroup.WithContext(ctx)
	for i := range 256 {
		shard := filepath.Join(s.dir, fmt.Sprintf("%02x", i))
		g.Go(func() error {
			if err := os.MkdirAll(shard, 0o750); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create cache shard"), "dir", shard)
			}
			return nil
		})
	}
	return g.Wait()
}

// entryPath returns dir/<key[0:2]>/<key[2:]><ext>.
func (s *Store) entryPath(key, ext string) (string, error) {
	if len(key) < 3 {
		return "", zerr.With(zerr.New("cache key too short"), "key", key)
	}
	return filepath.Join(s.dir, key[:2], key[2:]+ext), nil
}

// Get reads the structured entry for key into out. A missing or invalidated
// entry reports domain.ErrCacheMiss; any other read failure is propagated.
func (s *Store) Get(key string, out any) error {
	if s.consumeInvalidation(key) {
		return domain.ErrCacheMiss
	}

	path, err := s.entryPath(key, extJSON)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is derived from a hash key
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrCacheMiss
		}
		return zerr.With(zerr.Wrap(err, "failed to read cache entry"), "key", key)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to decode cache entry"), "key", key)
	}
	return nil
}

// Set serializes v and writes it under key with a write-then-rename so a
// partial write is never observed as a valid entry. A failed write is
// logged and reported as domain.ErrCacheWrite; the build continues without
// that entry cached.
func (s *Store) Set(key string, v any) error {
	path, err := s.entryPath(key, extJSON)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return s.writeFailure(key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return s.writeFailure(key, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return s.writeFailure(key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return s.writeFailure(key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return s.writeFailure(key, err)
	}
	return nil
}

// GetStream opens the blob entry for reading. The caller is responsible for
// consuming or closing the stream.
func (s *Store) GetStream(key string) (io.ReadCloser, error) {
	if s.consumeInvalidation(key) {
		return nil, domain.ErrCacheMiss
	}

	path, err := s.entryPath(key, extBlob)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // Path is derived from a hash key
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to open cache blob"), "key", key)
	}
	return f, nil
}

// SetStream pipes r into the blob entry for key. Any error, including an
// upstream read error propagated into the copy, removes the partial temp
// file so no partial blob is ever readable.
func (s *Store) SetStream(key string, r io.Reader) (string, error) {
	path, err := s.entryPath(key, extBlob)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create blob temp file"), "key", key)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", zerr.With(zerr.Wrap(err, "failed to write cache blob"), "key", key)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", zerr.With(zerr.Wrap(err, "failed to close cache blob"), "key", key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", zerr.With(zerr.Wrap(err, "failed to commit cache blob"), "key", key)
	}
	return key, nil
}

// Invalidate marks key so the next read reports a miss. In-memory only:
// all callers sharing this store through the registry observe it.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated[key] = struct{}{}
}

// IsInvalidated reports whether key is currently marked invalid, without
// consuming the mark.
func (s *Store) IsInvalidated(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.invalidated[key]
	return ok
}

// consumeInvalidation reports whether key was invalidated and clears the
// mark, so the entry written after the forced miss is served again.
func (s *Store) consumeInvalidation(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invalidated[key]; ok {
		delete(s.invalidated, key)
		return true
	}
	return false
}

func (s *Store) writeFailure(key string, cause error) error {
	err := zerr.With(zerr.Wrap(domain.ErrCacheWrite, cause.Error()), "key", key)
	if s.log != nil {
		s.log.Error(err)
	}
	return err
}
