package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/adapters/cache"
	"go.trai.ch/bale/internal/adapters/config"
	"go.trai.ch/bale/internal/adapters/fs"
	"go.trai.ch/bale/internal/adapters/lang"
	"go.trai.ch/bale/internal/adapters/logger"
	"go.trai.ch/bale/internal/adapters/telemetry"
	"go.trai.ch/bale/internal/core/ports"
)

// Components aggregates the resolved application surface handed to the CLI.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
}

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cache.NodeID,
			lang.ParserNodeID,
			lang.GeneratorNodeID,
			lang.HoisterNodeID,
			fs.ResolverNodeID,
			fs.PackagesNodeID,
			fs.HasherNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[ports.CacheRegistry](ctx)
			if err != nil {
				return nil, err
			}
			parser, err := graft.Dep[ports.Parser](ctx)
			if err != nil {
				return nil, err
			}
			gen, err := graft.Dep[ports.Generator](ctx)
			if err != nil {
				return nil, err
			}
			hoister, err := graft.Dep[ports.Hoister](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			packages, err := graft.Dep[ports.Packages](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:       New(loader, registry, parser, gen, hoister, resolver, packages, hasher, log, tel),
				Logger:    log,
				Telemetry: tel,
			}, nil
		},
	})
}
