// Package config provides the project configuration loader.
package config

import (
	"os"
	"path/filepath"

	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const fileName = "project.yaml"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader by reading project.yaml files.
type Loader struct {
	log  ports.Logger
	host ports.Host
}

// NewLoader creates a new Loader. host canonicalizes every path before it
// is minted into a domain.ProjectID, so two references spelled with a
// redundant "./" prefix, or with different case on a case-insensitive
// host, collapse onto the same identifier, per SPEC_FULL's Data Model.
func NewLoader(log ports.Logger, host ports.Host) *Loader {
	return &Loader{log: log, host: host}
}

// Resolve turns a user-typed name into a project identifier and the path
// of the configuration file it resolves to.
func (l *Loader) Resolve(cwd, name string) (domain.ProjectID, string, error) {
	candidate := name
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(cwd, candidate)
	}

	path := candidate
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		path = filepath.Join(candidate, fileName)
	} else if err != nil {
		joined := filepath.Join(candidate, fileName)
		if _, statErr := os.Stat(joined); statErr == nil {
			path = joined
		}
	}

	if _, err := os.Stat(path); err != nil {
		return domain.ProjectID{}, "", zerr.With(zerr.New("file not found"), "name", name)
	}

	return domain.NewProjectID(l.host.CanonicalFileName(path)), path, nil
}

// Parse reads and parses the project configuration file at path.
func (l *Loader) Parse(id domain.ProjectID, path string) (*domain.ParsedProject, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is resolved by Resolve
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read project file"), "path", path)
	}

	var file ProjectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, err.Error()), "path", path)
	}

	configDir := filepath.Dir(path)

	references := make([]domain.ProjectReference, 0, len(file.References))
	for _, r := range file.References {
		refPath := r.Path
		if !filepath.IsAbs(refPath) {
			refPath = filepath.Join(configDir, refPath)
		}
		if info, err := os.Stat(refPath); err == nil && info.IsDir() {
			refPath = filepath.Join(refPath, fileName)
		}
		references = append(references, domain.ProjectReference{
			Path:     domain.NewProjectID(l.host.CanonicalFileName(refPath)),
			Prepend:  r.Prepend,
			Circular: r.Circular,
		})
	}

	opts := domain.CompilerOptions{
		OutFile:          file.CompilerOptions.OutFile,
		OutDir:           file.CompilerOptions.OutDir,
		DeclarationDir:   file.CompilerOptions.DeclarationDir,
		RootDir:          file.CompilerOptions.RootDir,
		SourceMap:        file.CompilerOptions.SourceMap,
		DeclarationMap:   file.CompilerOptions.DeclarationMap,
		JSXPreserve:      file.CompilerOptions.JSX == "preserve",
		NoEmit:           file.CompilerOptions.NoEmit,
		EmitDeclarations: file.CompilerOptions.Declaration,
	}

	return &domain.ParsedProject{
		ID:           id,
		ConfigDir:    configDir,
		Inputs:       resolveInputGlobs(configDir, file.Input),
		References:   references,
		Options:      opts,
		WildcardDirs: absoluteDirs(configDir, file.WildcardDirs),
	}, nil
}

func resolveInputGlobs(configDir string, patterns []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}
		matches, err := filepath.Glob(path)
		if err != nil || len(matches) == 0 {
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
			continue
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

func absoluteDirs(configDir string, dirs []string) []string {
	out := make([]string, len(dirs))
	for i, d := range dirs {
		if filepath.IsAbs(d) {
			out[i] = d
		} else {
			out[i] = filepath.Join(configDir, d)
		}
	}
	return out
}
