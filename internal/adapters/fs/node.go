package fs

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/core/ports"
)

const (
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.hasher"
	// ResolverNodeID is the unique identifier for the resolver Graft node.
	ResolverNodeID graft.ID = "adapter.resolver"
	// PackagesNodeID is the unique identifier for the package finder Graft node.
	PackagesNodeID graft.ID = "adapter.packages"
)

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Resolver, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewResolver(cwd), nil
		},
	})

	graft.Register(graft.Node[ports.Packages]{
		ID:        PackagesNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Packages, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewPackageFinder(cwd), nil
		},
	})
}
