package cache

import (
	"errors"
	"fmt"

	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

var _ ports.ConfigLoader = (*CachingLoader)(nil)

// CachingLoader wraps a ports.ConfigLoader with the config cache described
// in §4.B: parses are memoized per project ID, and a parse failure is
// recorded as a diagnostic rather than retried on every lookup.
type CachingLoader struct {
	next  ports.ConfigLoader
	store *ConfigStore
}

// NewCachingLoader wraps next with store.
func NewCachingLoader(next ports.ConfigLoader, store *ConfigStore) *CachingLoader {
	return &CachingLoader{next: next, store: store}
}

// Resolve delegates directly; resolution is a path lookup, not a parse, so
// it is never memoized.
func (l *CachingLoader) Resolve(cwd, name string) (domain.ProjectID, string, error) {
	return l.next.Resolve(cwd, name)
}

// Parse returns the memoized parse for id if present, otherwise invokes the
// wrapped loader and memoizes whichever of (project, diagnostic) it yields.
func (l *CachingLoader) Parse(id domain.ProjectID, path string) (*domain.ParsedProject, error) {
	if project, diag, ok := l.store.Get(id); ok {
		if diag != nil {
			return nil, domain.ErrConfigParse
		}
		return project, nil
	}

	project, err := l.next.Parse(id, path)
	if err != nil {
		if !errors.Is(err, domain.ErrConfigParse) {
			err = fmt.Errorf("%w: %w", domain.ErrConfigParse, err)
		}
		l.store.PutDiagnostic(id, ports.Diagnostic{File: path, Message: err.Error(), Fatal: true})
		return nil, err
	}

	l.store.PutProject(id, project)
	return project, nil
}
