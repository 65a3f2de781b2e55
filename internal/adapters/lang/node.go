package lang

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/core/ports"
)

const (
	// ParserNodeID is the unique identifier for the parser Graft node.
	ParserNodeID graft.ID = "adapter.parser"
	// GeneratorNodeID is the unique identifier for the generator Graft node.
	GeneratorNodeID graft.ID = "adapter.generator"
	// HoisterNodeID is the unique identifier for the hoister Graft node.
	HoisterNodeID graft.ID = "adapter.hoister"
)

func init() {
	graft.Register(graft.Node[ports.Parser]{
		ID:        ParserNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Parser, error) {
			return NewParser(), nil
		},
	})

	graft.Register(graft.Node[ports.Generator]{
		ID:        GeneratorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Generator, error) {
			return NewParser(), nil
		},
	})

	graft.Register(graft.Node[ports.Hoister]{
		ID:        HoisterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hoister, error) {
			return NoopHoister{}, nil
		},
	})
}
