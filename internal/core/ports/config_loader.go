package ports

import "go.pbuild.dev/pbuild/internal/core/domain"

// ConfigLoader parses a single project configuration file into a
// ParsedProject. It is consumed by the config cache, which memoizes
// results keyed by project ID and captures unrecoverable parse
// diagnostics.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Parse reads and parses the project configuration file at path.
	Parse(id domain.ProjectID, path string) (*domain.ParsedProject, error)

	// Resolve turns a user-typed root name into a project identifier,
	// accepting either a direct file path or a directory containing the
	// conventional project file name. It reports an error if neither
	// exists.
	Resolve(cwd, name string) (domain.ProjectID, string, error)
}
