package ports

import (
	"context"
	"iter"
)

// WatchOp identifies the kind of filesystem change a WatchEvent reports.
type WatchOp int

const (
	OpCreate WatchOp = iota
	OpWrite
	OpRemove
	OpRename
)

// WatchEvent is a single filesystem change delivered by a Watcher.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher watches a directory tree for filesystem changes and delivers
// them as an event stream. Implementations are expected to run their own
// goroutine and hand events off through the returned iterator's channel.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching root and its subdirectories.
	Start(ctx context.Context, root string) error
	// Stop releases the watcher's resources.
	Stop() error
	// Events returns an iterator over delivered filesystem events.
	Events() iter.Seq[WatchEvent]
}
