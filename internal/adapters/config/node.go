package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.pbuild.dev/pbuild/internal/adapters/cache"
	"go.pbuild.dev/pbuild/internal/adapters/fs"
	"go.pbuild.dev/pbuild/internal/adapters/logger"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, cache.ConfigStoreNodeID, fs.HostNodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[*cache.ConfigStore](ctx)
			if err != nil {
				return nil, err
			}
			host, err := graft.Dep[ports.Host](ctx)
			if err != nil {
				return nil, err
			}
			return cache.NewCachingLoader(NewLoader(log, host), store), nil
		},
	})
}
