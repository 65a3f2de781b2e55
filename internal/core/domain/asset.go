// Package domain contains the core types of the bundler: assets, syntax
// trees, dependencies, and the pure decision logic that operates on them.
package domain

import "go.trai.ch/zerr"

// AssetType identifies the language family of an asset's source content.
type AssetType string

const (
	// AssetScript is a script-language source file.
	AssetScript AssetType = "js"
	// AssetMarkup is a markup-language document.
	AssetMarkup AssetType = "html"
	// AssetStyle is a stylesheet extracted from markup or referenced by it.
	AssetStyle AssetType = "css"
	// AssetRaw is an opaque binary asset copied through the cache untouched.
	AssetRaw AssetType = "raw"
)

// Environment is the target runtime the bundle is produced for.
type Environment string

const (
	// EnvBrowser targets a browser runtime.
	EnvBrowser Environment = "browser"
	// EnvNode targets a Node-style server runtime.
	EnvNode Environment = "node"
	// EnvElectron targets an Electron main process.
	EnvElectron Environment = "electron"
)

// IsServer reports whether the environment provides Node-style globals and
// filesystem access natively, so no shimming or inlining is needed.
func (e Environment) IsServer() bool {
	return e == EnvNode || e == EnvElectron
}

// CodeLoader fetches the raw source text of an asset. It is called at most
// once per asset; the result is cached for the asset's lifetime.
type CodeLoader func() (string, error)

// Asset is one buildable source file and its derived state through the
// pipeline. It is created by the loader before the pipeline runs, mutated in
// place through parse and transform, and discarded after generate.
type Asset struct {
	Path InternedString
	Type AssetType
	Env  Environment

	// AST is the parsed tree, nil until parse or carry-over. A nil AST is
	// valid: downstream steps are no-ops for it.
	AST *AST

	// Meta carries side-channel facts produced by the pipeline.
	Meta Meta

	loader CodeLoader
	code   string
	loaded bool

	deps []Dependency

	// Pkg is the nearest package descriptor, memoized by the pipeline.
	// nil means not yet looked up or not found.
	Pkg *Package
}

// NewAsset creates an asset whose source is fetched lazily through loader.
func NewAsset(path string, t AssetType, env Environment, loader CodeLoader) *Asset {
	return &Asset{
		Path:   NewInternedString(path),
		Type:   t,
		Env:    env,
		loader: loader,
	}
}

// NewAssetFromCode creates an asset whose source text is already in memory.
// Used for synthesized sub-assets extracted from a parent document.
func NewAssetFromCode(path string, t AssetType, env Environment, code string) *Asset {
	a := NewAsset(path, t, env, nil)
	a.code = code
	a.loaded = true
	return a
}

// Code returns the asset's raw source, fetching it on first access.
func (a *Asset) Code() (string, error) {
	if a.loaded {
		return a.code, nil
	}
	if a.loader == nil {
		return "", zerr.With(zerr.New("asset has no source"), "path", a.Path.String())
	}
	code, err := a.loader()
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to load asset source"), "path", a.Path.String())
	}
	a.code = code
	a.loaded = true
	return code, nil
}

// SetCode replaces the in-memory source text. Used when the dispatcher strips
// a hashbang line before parsing.
func (a *Asset) SetCode(code string) {
	a.code = code
	a.loaded = true
}

// AddDependency records a dependency edge in traversal order. Duplicates are
// acceptable; they are resolved downstream.
func (a *Asset) AddDependency(d Dependency) {
	a.deps = append(a.deps, d)
}

// Dependencies returns the recorded dependency edges in insertion order.
func (a *Asset) Dependencies() []Dependency {
	return a.deps
}
