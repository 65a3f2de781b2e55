package ports

import "go.trai.ch/bale/internal/core/domain"

// Resolver turns a dependency specifier into a file path.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve resolves specifier relative to the asset at fromPath.
	Resolve(specifier, fromPath string) (string, error)
}

// Packages looks up package descriptors for assets.
type Packages interface {
	// Nearest returns the package descriptor closest above path, or nil
	// when none exists.
	Nearest(path string) (*domain.Package, error)
}
