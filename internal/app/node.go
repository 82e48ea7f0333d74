package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.pbuild.dev/pbuild/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.pbuild.dev/pbuild/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.pbuild.dev/pbuild/internal/adapters/report" //nolint:depguard // Wired in app layer
	watcher "go.pbuild.dev/pbuild/internal/adapters/watch" //nolint:depguard // Wired in app layer
	"go.pbuild.dev/pbuild/internal/core/ports"
	"go.pbuild.dev/pbuild/internal/engine/driver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			driver.NodeID,
			watcher.WatcherNodeID,
			report.StatusReporterNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			drv, err := graft.Dep[*driver.Driver](ctx)
			if err != nil {
				return nil, err
			}

			watcher, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			statusReport, err := graft.Dep[ports.StatusReporter](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, drv, watcher, statusReport), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: application, Logger: log}, nil
		},
	})
}
