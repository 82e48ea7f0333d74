package classifier

import (
	"context"

	"github.com/grindlemire/graft"
	"go.pbuild.dev/pbuild/internal/adapters/cache"
	"go.pbuild.dev/pbuild/internal/adapters/fs"
	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

const NodeID graft.ID = "engine.classifier"

func init() {
	graft.Register(graft.Node[*Classifier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HostNodeID, cache.StatusStoreNodeID},
		Run: func(ctx context.Context) (*Classifier, error) {
			host, err := graft.Dep[ports.Host](ctx)
			if err != nil {
				return nil, err
			}
			memo, err := graft.Dep[*cache.StatusStore](ctx)
			if err != nil {
				return nil, err
			}
			return New(host, domain.NewUnchangedOutputsMap(), memo), nil
		},
	})
}
