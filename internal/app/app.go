// Package app implements the application layer for bale: it turns a build
// configuration into a set of processed assets, scheduling each asset's
// pipeline run concurrently and feeding discovered dependencies and
// synthesized sub-assets back through the same pipeline.
package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	registry     ports.CacheRegistry
	parser       ports.Parser
	gen          ports.Generator
	hoister      ports.Hoister
	resolver     ports.Resolver
	packages     ports.Packages
	hasher       ports.Hasher
	logger       ports.Logger
	tel          ports.Telemetry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	registry ports.CacheRegistry,
	parser ports.Parser,
	gen ports.Generator,
	hoister ports.Hoister,
	resolver ports.Resolver,
	packages ports.Packages,
	hasher ports.Hasher,
	log ports.Logger,
	tel ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		registry:     registry,
		parser:       parser,
		gen:          gen,
		hoister:      hoister,
		resolver:     resolver,
		packages:     packages,
		hasher:       hasher,
		logger:       log,
		tel:          tel,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	NoCache bool
}

// Run executes the build: load configuration, process each entry asset and,
// recursively, everything it references, then write outputs. Asset pipeline
// runs within one wave are independent and execute concurrently; the first
// unrecoverable error cancels the build without implicitly cancelling
// in-flight sibling runs.
func (a *App) Run(ctx context.Context, configPath string, entries []string, opts RunOptions) error {
	conf, err := a.configLoader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if len(entries) > 0 {
		conf.Entries = entries
	}
	if len(conf.Entries) == 0 {
		return domain.ErrNoEntries
	}

	store, err := a.registry.Get(conf.CacheDir)
	if err != nil {
		return err
	}
	if err := store.EnsureLayout(ctx); err != nil {
		return err
	}

	pipeCache := store
	if opts.NoCache {
		pipeCache = nil
	}
	disp := pipeline.NewDispatcher(
		a.parser, a.gen, a.hoister, a.packages, a.hasher,
		pipeCache, a.logger, a.tel, *conf,
	)

	b := &buildState{
		app:   a,
		disp:  disp,
		store: store,
		conf:  conf,
		seen:  make(map[string]bool),
	}

	frontier := make([]*domain.Asset, 0, len(conf.Entries))
	for _, entry := range conf.Entries {
		if !b.markSeen(entry) {
			continue
		}
		frontier = append(frontier, b.assetForPath(entry))
	}

	for len(frontier) > 0 {
		next, err := b.processWave(ctx, frontier)
		if err != nil {
			return err
		}
		frontier = next
	}

	return b.writeOutputs()
}

// buildState tracks one build's progress across waves.
type buildState struct {
	app   *App
	disp  *pipeline.Dispatcher
	store ports.Cache
	conf  *domain.BuildOptions

	mu      sync.Mutex
	seen    map[string]bool
	outputs []output
}

type output struct {
	path string
	code string
}

// processWave runs one frontier of independent assets concurrently and
// returns the next frontier: synthesized sub-assets plus newly discovered
// dependency targets.
func (b *buildState) processWave(ctx context.Context, wave []*domain.Asset) ([]*domain.Asset, error) {
	results := make([]*pipeline.Result, len(wave))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, asset := range wave {
		g.Go(func() error {
			res, err := b.processAsset(gctx, asset)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var next []*domain.Asset
	for i, res := range results {
		if res == nil {
			continue
		}
		for _, sub := range res.SubAssets {
			if b.markSeen(sub.Path.String()) {
				next = append(next, sub)
			}
		}
		next = append(next, b.dependencyAssets(wave[i])...)
	}
	return next, nil
}

// processAsset runs one asset through the pipeline, or copies it through
// the blob cache when it has no pipeline (styles and raw content).
func (b *buildState) processAsset(ctx context.Context, asset *domain.Asset) (*pipeline.Result, error) {
	switch asset.Type {
	case domain.AssetScript, domain.AssetMarkup:
		res, err := b.disp.Process(ctx, asset)
		if err != nil {
			return nil, err
		}
		b.addOutput(asset.Path.String(), res.Code)
		return res, nil
	default:
		return nil, b.copyThrough(asset)
	}
}

// copyThrough streams an opaque asset's content into the blob cache and
// records it for output untouched.
func (b *buildState) copyThrough(asset *domain.Asset) error {
	code, err := asset.Code()
	if err != nil {
		return err
	}
	key := b.app.hasher.HashString(code, asset.Path.String())
	if _, err := b.store.SetStream(key, strings.NewReader(code)); err != nil {
		// Blob write failures degrade caching, not the build.
		b.app.logger.Error(err)
	}
	b.addOutput(asset.Path.String(), code)
	return nil
}

// dependencyAssets resolves an asset's recorded dependencies to new assets.
// The resolved path is written back into each edge's hints so downstream
// consumers (worker URL rewriting, output reference mapping) can find the
// built child. Recorded edges keep duplicates per the collector contract;
// scheduling dedups by resolved path so each file builds once. An
// unresolvable specifier is reported and skipped rather than failing the
// whole build.
func (b *buildState) dependencyAssets(asset *domain.Asset) []*domain.Asset {
	var out []*domain.Asset
	deps := asset.Dependencies()
	for i := range deps {
		path, err := b.app.resolver.Resolve(deps[i].Specifier.String(), asset.Path.String())
		if err != nil {
			b.app.logger.Warn("unresolved dependency " + deps[i].Specifier.String() + " from " + asset.Path.String())
			continue
		}
		deps[i].Hints.Resolved = path
		if !b.markSeen(path) {
			continue
		}
		out = append(out, b.assetForPath(path))
	}
	return out
}

func (b *buildState) assetForPath(path string) *domain.Asset {
	return domain.NewAsset(path, typeForPath(path), b.conf.Target, func() (string, error) {
		data, err := os.ReadFile(path) //nolint:gosec // Build inputs are user paths
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
}

// markSeen returns true the first time a path is scheduled.
func (b *buildState) markSeen(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen[path] {
		return false
	}
	b.seen[path] = true
	return true
}

func (b *buildState) addOutput(path, code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outputs = append(b.outputs, output{path: path, code: code})
}

// writeOutputs places emitted code under the configured output directory,
// preserving relative paths.
func (b *buildState) writeOutputs() error {
	for _, out := range b.outputs {
		dest := filepath.Join(b.conf.OutDir, filepath.Clean(out.path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dest)
		}
		if err := os.WriteFile(dest, []byte(out.code), 0o644); err != nil { //nolint:gosec // Emitted bundles are world-readable
			return zerr.With(zerr.Wrap(err, "failed to write output"), "path", dest)
		}
	}
	b.app.logger.Info("build complete")
	return nil
}

// typeForPath maps a file extension to the asset type tag driving pipeline
// dispatch.
func typeForPath(path string) domain.AssetType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs":
		return domain.AssetScript
	case ".html", ".htm":
		return domain.AssetMarkup
	case ".css":
		return domain.AssetStyle
	default:
		return domain.AssetRaw
	}
}
