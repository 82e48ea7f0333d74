// Package watcher implements file system watching and event debouncing for watch-mode rebuilds.
package watcher

import (
	"sync"
	"time"

	"go.pbuild.dev/pbuild/internal/core/domain"
)

// Debouncer coalesces a burst of filesystem events into a single batched
// invalidation per project. Unlike a plain path set, repeated events for
// the same project widen towards the most severe domain.ReloadLevel seen
// within the window rather than recording every event individually.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[domain.ProjectID]domain.ReloadLevel
	timer    *time.Timer
	window   time.Duration
	callback func(batch map[domain.ProjectID]domain.ReloadLevel)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(batch map[domain.ProjectID]domain.ReloadLevel)) *Debouncer {
	return &Debouncer{
		pending:  make(map[domain.ProjectID]domain.ReloadLevel),
		window:   window,
		callback: callback,
	}
}

// Add records that id was touched at the given reload level, widening any
// level already pending for id.
func (d *Debouncer) Add(id domain.ProjectID, level domain.ReloadLevel) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[id] = d.pending[id].Widen(level)

	// Reset the timer if it exists, or create a new one.
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()

	// Check if there's anything to process (protects against race with Flush).
	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	batch := d.pending
	d.pending = make(map[domain.ProjectID]domain.ReloadLevel)
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		go d.callback(batch)
	}
}

// Flush immediately triggers the debounce callback with all pending
// invalidations. This method blocks until the callback completes, making it
// suitable for graceful shutdown scenarios where work must finish before
// proceeding.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	batch := d.pending
	d.pending = make(map[domain.ProjectID]domain.ReloadLevel)
	d.mu.Unlock()

	// Call the callback synchronously (blocks until complete).
	// This differs from fire() which is async, but is intentional for
	// flush scenarios where completion is required before proceeding.
	if len(batch) > 0 && d.callback != nil {
		d.callback(batch)
	}
}
