package ports

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
)

// Parser produces a syntax tree for an asset's source. The concrete grammar
// is external to the core; the core only requires the envelope contract.
//
//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type Parser interface {
	// Parse returns a tree for the asset, or nil when a cheap pre-scan
	// proves the content cannot need one. A nil tree is not an error: the
	// asset proceeds with downstream steps as no-ops.
	Parse(ctx context.Context, a *domain.Asset) (*domain.AST, error)
}

// Generator renders an asset's (possibly mutated) tree back to source text.
type Generator interface {
	Generate(ctx context.Context, a *domain.Asset) (string, error)
}

// Hoister is the whole-program scope-combination transform. Its internals
// are external to the core; when enabled it replaces the per-module interop
// rewrite.
type Hoister interface {
	Hoist(ctx context.Context, a *domain.Asset) error
}
