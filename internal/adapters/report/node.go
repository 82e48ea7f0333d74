package report

import (
	"context"

	"github.com/grindlemire/graft"
	"go.pbuild.dev/pbuild/internal/adapters/logger"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the concrete Reporter Graft node.
	NodeID graft.ID = "adapter.report"
	// DiagnosticReporterNodeID exposes the Reporter as ports.DiagnosticReporter.
	DiagnosticReporterNodeID graft.ID = "adapter.report.diagnostic"
	// StatusReporterNodeID exposes the Reporter as ports.StatusReporter.
	StatusReporterNodeID graft.ID = "adapter.report.status"
)

func init() {
	graft.Register(graft.Node[*Reporter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Reporter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})

	graft.Register(graft.Node[ports.DiagnosticReporter]{
		ID:        DiagnosticReporterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.DiagnosticReporter, error) {
			return graft.Dep[*Reporter](ctx)
		},
	})

	graft.Register(graft.Node[ports.StatusReporter]{
		ID:        StatusReporterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.StatusReporter, error) {
			return graft.Dep[*Reporter](ctx)
		},
	})
}
