// Package cache provides the in-memory, per-invocation memoization stores
// the build driver relies on: the config cache (§4.B) and the classifier's
// status memo. Neither persists across process invocations — SPEC_FULL's
// Non-goals rule out an on-disk cache of up-to-date status, and a config
// cache that outlived the process would go stale against the one thing the
// watcher exists to track: edits to project.yaml itself.
package cache

import (
	"sync"

	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

// configEntry is a config cache entry: either a parsed project or a fatal
// parse diagnostic, never both (§3's "Config cache entry").
type configEntry struct {
	project *domain.ParsedProject
	diag    *ports.Diagnostic
}

// ConfigStore memoizes project.yaml parses keyed by project ID. It is the
// cache §4.B describes: a config file is parsed once, and subsequent reads
// (classifier lookups, graph rebuilds) return the memoized result until the
// entry is evicted by a watch invalidation.
type ConfigStore struct {
	mu      sync.RWMutex
	entries map[domain.ProjectID]configEntry
}

// NewConfigStore creates an empty config cache.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{entries: make(map[domain.ProjectID]configEntry)}
}

// Get returns the memoized parse result for id, if any. Exactly one of the
// returned pointers is non-nil when ok is true.
func (s *ConfigStore) Get(id domain.ProjectID) (project *domain.ParsedProject, diag *ports.Diagnostic, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, found := s.entries[id]
	if !found {
		return nil, nil, false
	}
	return e.project, e.diag, true
}

// PutProject memoizes a successful parse.
func (s *ConfigStore) PutProject(id domain.ProjectID, project *domain.ParsedProject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = configEntry{project: project}
}

// PutDiagnostic memoizes an unrecoverable parse failure.
func (s *ConfigStore) PutDiagnostic(id domain.ProjectID, diag ports.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = configEntry{diag: &diag}
}

// Evict drops the memoized entry for id. Called when the watcher reports a
// write to the project's own config file (a Full-reload event per §4.E's
// watch file wiring).
func (s *ConfigStore) Evict(id domain.ProjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// StatusStore memoizes classifier verdicts keyed by project ID. The
// classifier consults it before recomputing a project's Status and clears
// entries transitively on invalidation (§4.D's "status map").
type StatusStore struct {
	mu      sync.RWMutex
	entries map[domain.ProjectID]domain.Status
}

// NewStatusStore creates an empty status memo.
func NewStatusStore() *StatusStore {
	return &StatusStore{entries: make(map[domain.ProjectID]domain.Status)}
}

// Get returns the memoized status for id, if any.
func (s *StatusStore) Get(id domain.ProjectID) (domain.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.entries[id]
	return status, ok
}

// Put memoizes status for id.
func (s *StatusStore) Put(id domain.ProjectID, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = status
}

// Evict drops the memoized status for id, forcing the classifier to
// recompute it on next access.
func (s *StatusStore) Evict(id domain.ProjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len reports the number of memoized statuses, chiefly for tests.
func (s *StatusStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
