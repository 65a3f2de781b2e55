// Package pipeline implements the per-type asset transformation pipeline:
// parse, reuse check, dependency collection, rewriting, and generation.
package pipeline

import (
	"context"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

// Status represents the lifecycle state of an asset in the pipeline.
type Status string

const (
	// StatusUnparsed indicates no tree has been attached yet.
	StatusUnparsed Status = "Unparsed"
	// StatusParsed indicates a fresh tree was produced by the parser.
	StatusParsed Status = "Parsed"
	// StatusReused indicates a carried-over tree passed the compatibility
	// gate and external parsing was skipped.
	StatusReused Status = "Reused"
	// StatusTransformed indicates the transform steps have run.
	StatusTransformed Status = "Transformed"
	// StatusGenerated indicates final code has been produced.
	StatusGenerated Status = "Generated"
)

// Result is the terminal output of one asset's pipeline run: the final code
// plus any synthesized sub-assets, which the caller must schedule through
// the same pipeline recursively.
type Result struct {
	Code      string
	SubAssets []*domain.Asset
	Status    Status

	// Type labels the generated output. For the built-in types it matches
	// the input type; transpiled variants map through outputTypes.
	Type domain.AssetType

	// Key is the content-derived cache key for this run.
	Key string
	// CacheHit reports that the result was served from the cache without
	// running the pipeline.
	CacheHit bool
	// Reused reports that a carried-over tree was accepted by the
	// compatibility gate.
	Reused bool
}

// typeHandler transforms one asset variant. Adding a new asset type is a
// new handler registered in NewDispatcher, not a conditional scattered
// across the pipeline.
type typeHandler interface {
	transform(ctx context.Context, a *domain.Asset, res *Result) error
}

// Dispatcher is the per-type orchestrator. It owns the fixed step order;
// each step is independently gated by its own applicability predicate and
// skipped steps are no-ops, not failures.
type Dispatcher struct {
	parser   ports.Parser
	gen      ports.Generator
	hoister  ports.Hoister
	packages ports.Packages
	hasher   ports.Hasher
	cache    ports.Cache
	log      ports.Logger
	tel      ports.Telemetry
	opts     domain.BuildOptions

	handlers map[domain.AssetType]typeHandler
}

// NewDispatcher creates a dispatcher for the given build options.
func NewDispatcher(
	parser ports.Parser,
	gen ports.Generator,
	hoister ports.Hoister,
	packages ports.Packages,
	hasher ports.Hasher,
	cache ports.Cache,
	log ports.Logger,
	tel ports.Telemetry,
	opts domain.BuildOptions,
) *Dispatcher {
	d := &Dispatcher{
		parser:   parser,
		gen:      gen,
		hoister:  hoister,
		packages: packages,
		hasher:   hasher,
		cache:    cache,
		log:      log,
		tel:      tel,
		opts:     opts,
	}
	d.handlers = map[domain.AssetType]typeHandler{
		domain.AssetScript: &scriptHandler{d: d},
		domain.AssetMarkup: &markupHandler{d: d},
	}
	return d
}

// Process runs one asset through the pipeline:
// Unparsed -> Parsed (or Reused) -> Transformed -> Generated.
func (d *Dispatcher) Process(ctx context.Context, a *domain.Asset) (*Result, error) {
	ctx, vtx := d.tel.Record(ctx, a.Path.String())

	res, err := d.process(ctx, a)
	if err != nil {
		vtx.Complete(err)
		return nil, err
	}
	if res.CacheHit {
		vtx.Cached()
	}
	vtx.Complete(nil)
	return res, nil
}

func (d *Dispatcher) process(ctx context.Context, a *domain.Asset) (*Result, error) {
	handler, ok := d.handlers[a.Type]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedType, "no pipeline for asset type"), "type", string(a.Type))
	}

	code, err := a.Code()
	if err != nil {
		return nil, err
	}
	code = d.stripHashbang(a, code)

	res := &Result{Status: StatusUnparsed, Type: outputTypeFor(a.Type)}
	res.Key = d.hasher.HashString(code, a.Path.String(), string(a.Type), string(a.Env), d.opts.Fingerprint())

	if d.cache != nil && a.AST == nil {
		hit, ok, err := d.probeCache(res.Key, a)
		if err != nil {
			return nil, err
		}
		if ok {
			hit.Key = res.Key
			return hit, nil
		}
	}

	if err := d.attachTree(ctx, a, res); err != nil {
		return nil, err
	}

	if err := handler.transform(ctx, a, res); err != nil {
		return nil, err
	}
	res.Status = StatusTransformed

	if err := d.generate(ctx, a, res); err != nil {
		return nil, err
	}
	res.Status = StatusGenerated

	d.storeResult(res, a)
	return res, nil
}

// attachTree accepts a carried-over tree through the compatibility gate or
// invokes the external parser. An incompatible tree is discarded, never an
// error. The parser may return no tree at all when the content provably
// cannot need one; the asset then proceeds with downstream steps as no-ops.
func (d *Dispatcher) attachTree(ctx context.Context, a *domain.Asset, res *Result) error {
	if a.AST != nil {
		if domain.CanReuseAST(a.Type, a.AST) {
			res.Status = StatusReused
			res.Reused = true
			return nil
		}
		a.AST = nil
	}

	ast, err := d.parser.Parse(ctx, a)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrParse, err.Error()), "path", a.Path.String())
	}
	a.AST = ast
	res.Status = StatusParsed
	return nil
}

// generate renders the tree back to text only when a mutating step marked
// it dirty; otherwise the original source text is reused verbatim. Global
// shims recorded in meta are prepended afterward regardless, in insertion
// order, and cleared so repeated generate calls do not duplicate them.
func (d *Dispatcher) generate(ctx context.Context, a *domain.Asset, res *Result) error {
	var out string
	var err error
	if a.AST != nil && a.AST.Dirty() {
		out, err = d.gen.Generate(ctx, a)
	} else {
		out, err = a.Code()
	}
	if err != nil {
		return err
	}

	if shims := a.Meta.ConsumeGlobals(); shims != "" {
		out = shims + "\n" + out
	}
	res.Code = out
	return nil
}

// outputTypes maps an input asset type to the type its generated output is
// labeled with. Types not listed pass through unchanged; a transpiled
// variant registers its mapping here alongside its handler.
var outputTypes = map[domain.AssetType]domain.AssetType{}

func outputTypeFor(t domain.AssetType) domain.AssetType {
	if out, ok := outputTypes[t]; ok {
		return out
	}
	return t
}

// stripHashbang removes a leading hashbang line before parsing and records
// the interpreter value in meta. Packaging consumes it for server targets.
func (d *Dispatcher) stripHashbang(a *domain.Asset, code string) string {
	if !strings.HasPrefix(code, "#!") {
		return code
	}
	line, rest, _ := strings.Cut(code, "\n")
	a.Meta.Interpreter = strings.TrimSpace(strings.TrimPrefix(line, "#!"))
	a.SetCode(rest)
	return rest
}
