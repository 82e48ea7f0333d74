package driver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.pbuild.dev/pbuild/internal/adapters/cache"
	"go.pbuild.dev/pbuild/internal/adapters/compiler"
	"go.pbuild.dev/pbuild/internal/adapters/fs"
	"go.pbuild.dev/pbuild/internal/adapters/report"
	"go.pbuild.dev/pbuild/internal/adapters/telemetry"
	"go.pbuild.dev/pbuild/internal/core/ports"
	"go.pbuild.dev/pbuild/internal/engine/classifier"
)

// NodeID is the unique identifier for the build driver Graft node.
const NodeID graft.ID = "engine.driver"

func init() {
	graft.Register(graft.Node[*Driver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.HostNodeID,
			fs.ResolverNodeID,
			compiler.NodeID,
			classifier.NodeID,
			cache.StatusStoreNodeID,
			cache.ConfigStoreNodeID,
			report.DiagnosticReporterNodeID,
			report.StatusReporterNodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Driver, error) {
			host, err := graft.Dep[ports.Host](ctx)
			if err != nil {
				return nil, err
			}
			comp, err := graft.Dep[ports.Compiler](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			cls, err := graft.Dep[*classifier.Classifier](ctx)
			if err != nil {
				return nil, err
			}
			statusStore, err := graft.Dep[*cache.StatusStore](ctx)
			if err != nil {
				return nil, err
			}
			configStore, err := graft.Dep[*cache.ConfigStore](ctx)
			if err != nil {
				return nil, err
			}
			diagReport, err := graft.Dep[ports.DiagnosticReporter](ctx)
			if err != nil {
				return nil, err
			}
			statusReport, err := graft.Dep[ports.StatusReporter](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(host, comp, resolver, cls, statusStore, configStore, cls.Unchanged(), diagReport, statusReport, tracer), nil
		},
	})
}
