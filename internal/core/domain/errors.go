package domain

import "go.trai.ch/zerr"

var (
	// ErrCacheMiss is returned by cache reads when the entry does not exist.
	// A miss is an expected outcome, not a failure.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrCacheWrite wraps a failed cache write. Callers must treat it as
	// non-fatal: the build continues without that entry cached.
	ErrCacheWrite = zerr.New("cache write failed")

	// ErrParse wraps a parser failure. Fatal for the affected asset.
	ErrParse = zerr.New("parse failed")

	// ErrUnsupportedType is returned when no pipeline handles an asset type.
	ErrUnsupportedType = zerr.New("unsupported asset type")

	// ErrNoEntries is returned when a build is requested with no entry assets.
	ErrNoEntries = zerr.New("no entry assets specified")
)
