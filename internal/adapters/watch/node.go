package watcher

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

// WatcherNodeID is the unique identifier for the file watcher Graft node.
const WatcherNodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        WatcherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Watcher, error) {
			return NewWatcher()
		},
	})
}

// DefaultDebounceWindow is the invalidation queue's coalescing window.
const DefaultDebounceWindow = 250 * time.Millisecond
