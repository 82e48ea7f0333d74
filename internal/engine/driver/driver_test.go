package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.pbuild.dev/pbuild/internal/adapters/cache"
	"go.pbuild.dev/pbuild/internal/adapters/telemetry"
	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
	"go.pbuild.dev/pbuild/internal/engine/classifier"
	"go.pbuild.dev/pbuild/internal/engine/driver"
)

type fakeHost struct {
	mtimes   map[string]time.Time
	contents map[string][]byte
}

func newFakeHost() *fakeHost {
	return &fakeHost{mtimes: make(map[string]time.Time), contents: make(map[string][]byte)}
}

func (h *fakeHost) set(path string, t time.Time) { h.mtimes[path] = t }

func (h *fakeHost) FileExists(path string) bool {
	_, ok := h.mtimes[path]
	return ok
}

func (h *fakeHost) ReadFile(path string) ([]byte, error) { return h.contents[path], nil }

func (h *fakeHost) ModTime(path string) (time.Time, error) { return h.mtimes[path], nil }

func (h *fakeHost) SetModTime(path string, t time.Time) error {
	h.mtimes[path] = t
	return nil
}

func (h *fakeHost) DeleteFile(path string) error {
	delete(h.mtimes, path)
	delete(h.contents, path)
	return nil
}

func (h *fakeHost) WriteFile(path string, content []byte, _ bool) error {
	h.mtimes[path] = time.Now()
	h.contents[path] = content
	return nil
}

func (h *fakeHost) UseCaseSensitiveFileNames() bool      { return true }
func (h *fakeHost) GetCurrentDirectory() string          { return "/repo" }
func (h *fakeHost) CanonicalFileName(path string) string { return path }

// fakeCompiler is a scriptable ports.Compiler: each diagnostics map is
// keyed by project ID, and emitCalls counts how many times Emit actually
// ran, so tests can assert the driver skipped the compiler entirely for
// up-to-date projects. Like the real adapters/compiler.PassthroughCompiler,
// a missing input file always surfaces as an options diagnostic.
type fakeCompiler struct {
	host          ports.Host
	semanticDiags map[domain.ProjectID][]ports.Diagnostic
	declDiags     map[domain.ProjectID][]ports.Diagnostic
	emitCalls     int
}

func newFakeCompiler(host ports.Host) *fakeCompiler {
	return &fakeCompiler{
		host:          host,
		semanticDiags: make(map[domain.ProjectID][]ports.Diagnostic),
		declDiags:     make(map[domain.ProjectID][]ports.Diagnostic),
	}
}

func (c *fakeCompiler) CreateProgram(_ context.Context, p *domain.ParsedProject) (ports.Program, error) {
	return &fakeProgram{compiler: c, project: p}, nil
}

type fakeProgram struct {
	compiler *fakeCompiler
	project  *domain.ParsedProject
}

func (p *fakeProgram) OptionsDiagnostics() []ports.Diagnostic {
	var diags []ports.Diagnostic
	for _, in := range p.project.Inputs {
		if !p.compiler.host.FileExists(in) {
			diags = append(diags, ports.Diagnostic{File: in, Message: "input file does not exist", Fatal: true})
		}
	}
	return diags
}

func (p *fakeProgram) SyntacticDiagnostics() []ports.Diagnostic { return nil }
func (p *fakeProgram) SemanticDiagnostics() []ports.Diagnostic {
	return p.compiler.semanticDiags[p.project.ID]
}
func (p *fakeProgram) DeclarationDiagnostics() []ports.Diagnostic {
	return p.compiler.declDiags[p.project.ID]
}

func (p *fakeProgram) Emit(_ context.Context, writeFile func(string, []byte, bool) error) ([]string, error) {
	p.compiler.emitCalls++
	var written []string
	for _, out := range domain.ExpectedOutputs(p.project) {
		if err := writeFile(out.Path, []byte("built:"+out.Path), false); err != nil {
			return written, err
		}
		written = append(written, out.Path)
	}
	return written, nil
}

type fakeResolver struct {
	inputs []string
}

func (r *fakeResolver) ResolveInputs(_ []string, _ string) ([]string, error) {
	return r.inputs, nil
}

type fakeDiagReporter struct {
	calls int
}

func (r *fakeDiagReporter) ReportDiagnostics(domain.ProjectID, []ports.Diagnostic) { r.calls++ }

type fakeStatusReporter struct{}

func (r *fakeStatusReporter) ReportStatus(domain.ProjectID, domain.Status, bool) {}
func (r *fakeStatusReporter) ReportBuildQueue([]domain.ProjectID)                {}
func (r *fakeStatusReporter) ReportWatchSummary(int)                            {}
func (r *fakeStatusReporter) ReportClean(domain.ProjectID, string)              {}

var t0 = time.Unix(1000, 0)
var t1 = time.Unix(2000, 0)

func project(id domain.ProjectID, inputs []string, refs []domain.ProjectReference) *domain.ParsedProject {
	return &domain.ParsedProject{
		ID:         id,
		ConfigDir:  "/repo/" + id.String(),
		Inputs:     inputs,
		References: refs,
		Options:    domain.CompilerOptions{OutDir: "dist"},
	}
}

type harness struct {
	host       *fakeHost
	compiler   *fakeCompiler
	diagReport *fakeDiagReporter
	statusMemo *cache.StatusStore
	driver     *driver.Driver
}

func newHarness() *harness {
	host := newFakeHost()
	compiler := newFakeCompiler(host)
	diagReport := &fakeDiagReporter{}
	statusMemo := cache.NewStatusStore()
	cls := classifier.New(host, domain.NewUnchangedOutputsMap(), statusMemo)

	d := driver.New(
		host,
		compiler,
		&fakeResolver{},
		cls,
		statusMemo,
		cache.NewConfigStore(),
		cls.Unchanged(),
		diagReport,
		&fakeStatusReporter{},
		telemetry.NewNoOpTracer(),
	)
	return &harness{host: host, compiler: compiler, diagReport: diagReport, statusMemo: statusMemo, driver: d}
}

func newGraph(t *testing.T, projects map[domain.ProjectID]*domain.ParsedProject, roots ...domain.ProjectID) *domain.Graph {
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

func TestBuildAll_SkipsUpToDateProject(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)
	h.host.set("/repo/app/dist/main.js", t1)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	exitCode := h.driver.BuildAll(context.Background(), graph, driver.Options{})
	require.Equal(t, driver.ExitSuccess, exitCode)
	require.Equal(t, 0, h.compiler.emitCalls)
}

func TestBuildAll_BuildsOutOfDateProject(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)
	// dist/main.js missing -> OutputMissing.

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	exitCode := h.driver.BuildAll(context.Background(), graph, driver.Options{})
	require.Equal(t, driver.ExitSuccess, exitCode)
	require.Equal(t, 1, h.compiler.emitCalls)
	require.True(t, h.host.FileExists("/repo/app/dist/main.js"))

	status, ok := h.statusMemo.Get(id)
	require.True(t, ok)
	require.IsType(t, domain.UpToDate{}, status)
}

func TestBuildAll_IsIdempotent(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	require.Equal(t, driver.ExitSuccess, h.driver.BuildAll(context.Background(), graph, driver.Options{}))
	require.Equal(t, 1, h.compiler.emitCalls)

	// Re-run with no filesystem changes: the project is now UpToDate, so a
	// second BuildAll must not invoke the compiler again.
	require.Equal(t, driver.ExitSuccess, h.driver.BuildAll(context.Background(), graph, driver.Options{}))
	require.Equal(t, 1, h.compiler.emitCalls)
}

func TestBuildAll_ForceRebuildsUpToDateProject(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)
	h.host.set("/repo/app/dist/main.js", t1)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	exitCode := h.driver.BuildAll(context.Background(), graph, driver.Options{Force: true})
	require.Equal(t, driver.ExitSuccess, exitCode)
	require.Equal(t, 1, h.compiler.emitCalls)
}

func TestBuildAll_DryRunPerformsNoWrites(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	exitCode := h.driver.BuildAll(context.Background(), graph, driver.Options{Dry: true})
	require.Equal(t, driver.ExitSuccess, exitCode)
	require.Equal(t, 0, h.compiler.emitCalls)
	require.False(t, h.host.FileExists("/repo/app/dist/main.js"))
}

func TestBuildAll_ReportsTypeErrors(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)
	h.compiler.semanticDiags[id] = []ports.Diagnostic{{File: "/repo/app/main.ts", Message: "type error", Fatal: true}}

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	exitCode := h.driver.BuildAll(context.Background(), graph, driver.Options{})
	require.Equal(t, driver.ExitDiagnosticsPresent, exitCode)
	require.Equal(t, 1, h.diagReport.calls)

	status, ok := h.statusMemo.Get(id)
	require.True(t, ok)
	require.IsType(t, domain.Unbuildable{}, status)
}

func TestBuildAll_SkipsUpstreamBlockedProject(t *testing.T) {
	h := newHarness()
	libID := domain.NewProjectID("lib")
	appID := domain.NewProjectID("app")

	lib := project(libID, []string{"/repo/lib/main.ts"}, nil) // missing input -> options diagnostic
	app := project(appID, []string{"/repo/app/main.ts"}, []domain.ProjectReference{{Path: libID}})
	h.host.set("/repo/app/main.ts", t0)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{libID: lib, appID: app}, appID)

	// lib's own build attempt rediscovers the missing input as an options
	// diagnostic, so the overall run reports diagnostics present even though
	// app itself is never attempted (it is UpstreamBlocked on lib).
	exitCode := h.driver.BuildAll(context.Background(), graph, driver.Options{})
	require.Equal(t, driver.ExitDiagnosticsPresent, exitCode)
	require.Equal(t, 0, h.compiler.emitCalls)

	appStatus, ok := h.statusMemo.Get(appID)
	require.True(t, ok)
	require.IsType(t, domain.UpstreamBlocked{}, appStatus)
}

func TestBuildAll_TimestampTouchesPseudoUpToDateProject(t *testing.T) {
	h := newHarness()
	libID := domain.NewProjectID("lib")
	appID := domain.NewProjectID("app")

	lib := project(libID, []string{"/repo/lib/main.ts"}, nil)
	lib.Options.EmitDeclarations = true
	app := project(appID, []string{"/repo/app/main.ts"}, []domain.ProjectReference{{Path: libID}})

	h.host.set("/repo/lib/main.ts", t1)
	h.host.set("/repo/lib/dist/main.js", t1.Add(time.Second))
	h.host.set("/repo/lib/dist/main.d.ts", t1.Add(time.Second))

	h.host.set("/repo/app/main.ts", t0)
	appOutput := t0.Add(time.Second)
	h.host.set("/repo/app/dist/main.js", appOutput)

	h.driver.Unchanged().Record("/repo/lib/dist/main.d.ts", t0)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{libID: lib, appID: app}, appID)

	exitCode := h.driver.BuildAll(context.Background(), graph, driver.Options{})
	require.Equal(t, driver.ExitSuccess, exitCode)
	require.Equal(t, 0, h.compiler.emitCalls)

	appMTime, err := h.host.ModTime("/repo/app/dist/main.js")
	require.NoError(t, err)
	require.True(t, appMTime.After(appOutput))
}

func TestCleanAll_DeletesExistingOutputs(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)
	h.host.set("/repo/app/dist/main.js", t1)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	exitCode := h.driver.CleanAll(graph, driver.Options{})
	require.Equal(t, driver.ExitSuccess, exitCode)
	require.False(t, h.host.FileExists("/repo/app/dist/main.js"))
}

func TestCleanAll_DryRunLeavesOutputsInPlace(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)
	h.host.set("/repo/app/dist/main.js", t1)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	exitCode := h.driver.CleanAll(graph, driver.Options{Dry: true})
	require.Equal(t, driver.ExitSuccess, exitCode)
	require.True(t, h.host.FileExists("/repo/app/dist/main.js"))
}

func TestInvalidateProject_CascadesToParents(t *testing.T) {
	h := newHarness()
	libID := domain.NewProjectID("lib")
	appID := domain.NewProjectID("app")

	lib := project(libID, []string{"/repo/lib/main.ts"}, nil)
	app := project(appID, []string{"/repo/app/main.ts"}, []domain.ProjectReference{{Path: libID}})
	h.host.set("/repo/lib/main.ts", t0)
	h.host.set("/repo/lib/dist/main.js", t1)
	h.host.set("/repo/app/main.ts", t0)
	h.host.set("/repo/app/dist/main.js", t1)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{libID: lib, appID: app}, appID)

	h.driver.BuildAll(context.Background(), graph, driver.Options{}) // populate the status memo
	baseline := h.compiler.emitCalls

	isNew := h.driver.InvalidateProject(graph, libID, domain.ReloadNone)
	require.True(t, isNew)

	_, libMemoized := h.statusMemo.Get(libID)
	require.False(t, libMemoized)
	_, appMemoized := h.statusMemo.Get(appID)
	require.False(t, appMemoized, "invalidating lib must cascade-evict its parent app")

	for !h.driver.BuildInvalidatedProject(context.Background(), graph, driver.Options{}) {
	}

	// Both lib (directly invalidated) and app (cascaded parent) must have
	// gone through a rebuild pass.
	require.Equal(t, baseline+2, h.compiler.emitCalls)
}

func TestBuildInvalidatedProject_SkipsUpstreamBlocked(t *testing.T) {
	h := newHarness()
	libID := domain.NewProjectID("lib")
	appID := domain.NewProjectID("app")

	lib := project(libID, []string{"/repo/lib/main.ts"}, nil) // missing input -> Unbuildable
	app := project(appID, []string{"/repo/app/main.ts"}, []domain.ProjectReference{{Path: libID}})
	h.host.set("/repo/app/main.ts", t0)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{libID: lib, appID: app}, appID)

	h.driver.InvalidateProject(graph, appID, domain.ReloadNone)
	queueEmpty := h.driver.BuildInvalidatedProject(context.Background(), graph, driver.Options{})
	require.True(t, queueEmpty)
	require.Equal(t, 0, h.compiler.emitCalls)
}

func TestBuildInvalidatedProject_BuildsAndClearsErrorCount(t *testing.T) {
	h := newHarness()
	id := domain.NewProjectID("app")
	p := project(id, []string{"/repo/app/main.ts"}, nil)
	h.host.set("/repo/app/main.ts", t0)

	graph := newGraph(t, map[domain.ProjectID]*domain.ParsedProject{id: p}, id)

	h.driver.InvalidateProject(graph, id, domain.ReloadNone)
	queueEmpty := h.driver.BuildInvalidatedProject(context.Background(), graph, driver.Options{})
	require.True(t, queueEmpty)
	require.Equal(t, 1, h.compiler.emitCalls)
	require.Equal(t, 0, h.driver.ErrorCount())
}
