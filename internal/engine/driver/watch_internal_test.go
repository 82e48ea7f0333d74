package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

func testGraph(t *testing.T, projects map[domain.ProjectID]*domain.ParsedProject, roots ...domain.ProjectID) *domain.Graph {
	t.Helper()
	g, err := domain.BuildGraph(roots, func(id domain.ProjectID) (*domain.ParsedProject, error) {
		p, ok := projects[id]
		if !ok {
			return nil, domain.ErrProjectNotFound
		}
		return p, nil
	})
	require.NoError(t, err)
	return g
}

func TestWatchTables_ConfigFileChangeIsFullReload(t *testing.T) {
	id := domain.NewProjectID("/repo/app/project.yaml")
	p := &domain.ParsedProject{ID: id, ConfigDir: "/repo/app", Inputs: []string{"/repo/app/main.ts"}}
	graph := testGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	tables := buildWatchTables(graph)
	gotID, level, ok := tables.classify(ports.WatchEvent{Path: "/repo/app/project.yaml", Operation: ports.OpWrite})
	require.True(t, ok)
	require.Equal(t, id, gotID)
	require.Equal(t, domain.ReloadFull, level)
}

func TestWatchTables_ExplicitInputIsNoneReload(t *testing.T) {
	id := domain.NewProjectID("/repo/app/project.yaml")
	p := &domain.ParsedProject{ID: id, ConfigDir: "/repo/app", Inputs: []string{"/repo/app/main.ts"}}
	graph := testGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	tables := buildWatchTables(graph)
	gotID, level, ok := tables.classify(ports.WatchEvent{Path: "/repo/app/main.ts", Operation: ports.OpWrite})
	require.True(t, ok)
	require.Equal(t, id, gotID)
	require.Equal(t, domain.ReloadNone, level)
}

func TestWatchTables_WildcardDirSourceFileIsPartialReload(t *testing.T) {
	id := domain.NewProjectID("/repo/app/project.yaml")
	p := &domain.ParsedProject{
		ID:           id,
		ConfigDir:    "/repo/app",
		Inputs:       []string{"/repo/app/src/main.ts"},
		WildcardDirs: []string{"/repo/app/src"},
	}
	graph := testGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	tables := buildWatchTables(graph)
	gotID, level, ok := tables.classify(ports.WatchEvent{Path: "/repo/app/src/new.ts", Operation: ports.OpCreate})
	require.True(t, ok)
	require.Equal(t, id, gotID)
	require.Equal(t, domain.ReloadPartial, level)
}

func TestWatchTables_OutputFileChangeIsIgnored(t *testing.T) {
	id := domain.NewProjectID("/repo/app/project.yaml")
	p := &domain.ParsedProject{
		ID:           id,
		ConfigDir:    "/repo/app",
		Inputs:       []string{"/repo/app/src/main.ts"},
		WildcardDirs: []string{"/repo/app/src"},
		Options:      domain.CompilerOptions{OutDir: "dist"},
	}
	graph := testGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	tables := buildWatchTables(graph)
	_, _, ok := tables.classify(ports.WatchEvent{Path: "/repo/app/dist/main.js", Operation: ports.OpWrite})
	require.False(t, ok)
}

func TestWatchTables_NonSourceExtensionInWildcardDirIsIgnored(t *testing.T) {
	id := domain.NewProjectID("/repo/app/project.yaml")
	p := &domain.ParsedProject{
		ID:           id,
		ConfigDir:    "/repo/app",
		Inputs:       []string{"/repo/app/src/main.ts"},
		WildcardDirs: []string{"/repo/app/src"},
	}
	graph := testGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	tables := buildWatchTables(graph)
	_, _, ok := tables.classify(ports.WatchEvent{Path: "/repo/app/src/notes.md", Operation: ports.OpWrite})
	require.False(t, ok)
}

func TestWatchTables_UnrelatedPathIsIgnored(t *testing.T) {
	id := domain.NewProjectID("/repo/app/project.yaml")
	p := &domain.ParsedProject{ID: id, ConfigDir: "/repo/app", Inputs: []string{"/repo/app/main.ts"}}
	graph := testGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	tables := buildWatchTables(graph)
	_, _, ok := tables.classify(ports.WatchEvent{Path: "/repo/other/file.ts", Operation: ports.OpWrite})
	require.False(t, ok)
}
