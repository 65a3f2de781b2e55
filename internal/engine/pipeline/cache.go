package pipeline

import (
	"errors"

	"go.trai.ch/bale/internal/core/domain"
)

// cacheEntry is the structured artifact persisted per pipeline run.
type cacheEntry struct {
	Code string      `json:"code"`
	Deps []cachedDep `json:"deps,omitempty"`
	Subs []cachedSub `json:"subs,omitempty"`
	Meta cachedFacts `json:"meta"`
}

type cachedDep struct {
	Specifier string         `json:"specifier"`
	Kind      domain.DepKind `json:"kind"`
	Pos       int            `json:"pos,omitempty"`
	Attr      string         `json:"attr,omitempty"`
}

type cachedSub struct {
	Path string           `json:"path"`
	Type domain.AssetType `json:"type"`
	Code string           `json:"code"`
}

type cachedFacts struct {
	Interpreter string `json:"interpreter,omitempty"`
	ES6Module   bool   `json:"es6Module,omitempty"`
}

// probeCache serves a previous run's result for key, replaying recorded
// dependencies and sub-assets onto the asset. A miss or an invalidated entry
// falls back to the full pipeline; any other read failure (corrupt entry,
// I/O error) is propagated so the caller sees the failing cache rather than
// a silent rebuild.
func (d *Dispatcher) probeCache(key string, a *domain.Asset) (*Result, bool, error) {
	var entry cacheEntry
	if err := d.cache.Get(key, &entry); err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}

	for _, dep := range entry.Deps {
		rec := domain.NewDependency(dep.Specifier, dep.Kind)
		rec.Hints.Pos = dep.Pos
		rec.Hints.Attr = dep.Attr
		a.AddDependency(rec)
	}
	a.Meta.Interpreter = entry.Meta.Interpreter
	a.Meta.ES6Module = entry.Meta.ES6Module

	res := &Result{
		Code:     entry.Code,
		Status:   StatusGenerated,
		Type:     outputTypeFor(a.Type),
		CacheHit: true,
	}
	for _, sub := range entry.Subs {
		res.SubAssets = append(res.SubAssets, domain.NewAssetFromCode(sub.Path, sub.Type, a.Env, sub.Code))
	}
	return res, true, nil
}

// storeResult persists the run's artifact. A cache-write failure is a
// correctness and performance degradation, not a build failure: the store
// already logged it, so everything except the expected write sentinel is
// surfaced once more and the build continues either way.
func (d *Dispatcher) storeResult(res *Result, a *domain.Asset) {
	if d.cache == nil {
		return
	}

	entry := cacheEntry{
		Code: res.Code,
		Meta: cachedFacts{
			Interpreter: a.Meta.Interpreter,
			ES6Module:   a.Meta.ES6Module,
		},
	}
	for _, dep := range a.Dependencies() {
		entry.Deps = append(entry.Deps, cachedDep{
			Specifier: dep.Specifier.String(),
			Kind:      dep.Kind,
			Pos:       dep.Hints.Pos,
			Attr:      dep.Hints.Attr,
		})
	}
	for _, sub := range res.SubAssets {
		code, err := sub.Code()
		if err != nil {
			d.log.Error(err)
			return
		}
		entry.Subs = append(entry.Subs, cachedSub{
			Path: sub.Path.String(),
			Type: sub.Type,
			Code: code,
		})
	}

	if err := d.cache.Set(res.Key, entry); err != nil && !errors.Is(err, domain.ErrCacheWrite) {
		d.log.Error(err)
	}
}
