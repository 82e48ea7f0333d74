// Package app wires the config loader and build driver into the three
// operations the CLI exposes: build, clean, and watch.
package app

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.pbuild.dev/pbuild/internal/adapters/telemetry"
	"go.pbuild.dev/pbuild/internal/adapters/tui"
	watcher "go.pbuild.dev/pbuild/internal/adapters/watch" //nolint:depguard // Wired in app layer
	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
	"go.pbuild.dev/pbuild/internal/engine/driver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// newDebouncer adapts adapters/watch.NewDebouncer to driver.DebouncerFactory,
// keeping the driver package free of any import on adapters/watch.
func newDebouncer(window time.Duration, callback func(batch map[domain.ProjectID]domain.ReloadLevel)) driver.Debouncer {
	return watcher.NewDebouncer(window, callback)
}

// App resolves root project names into a reference graph and drives the
// build driver's three operations over it.
type App struct {
	configLoader ports.ConfigLoader
	driver       *driver.Driver
	watcher      ports.Watcher
	statusReport ports.StatusReporter
	teaOptions   []tea.ProgramOption
}

// New creates an App. statusReport is the plain-text reporter the driver was
// constructed with; Watch wraps it with a dashboard-aware decorator for the
// duration of a single UI-mode session.
func New(loader ports.ConfigLoader, drv *driver.Driver, watcher ports.Watcher, statusReport ports.StatusReporter) *App {
	return &App{configLoader: loader, driver: drv, watcher: watcher, statusReport: statusReport}
}

// WithTeaOptions adds Bubble Tea program options to the dashboard Watch
// starts in UI mode. Primarily used by tests to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// resolveGraph resolves every target name to a project identifier relative
// to the current working directory and builds the reference graph rooted
// at all of them.
func (a *App) resolveGraph(targetNames []string) (*domain.Graph, error) {
	if len(targetNames) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}

	roots := make([]domain.ProjectID, len(targetNames))
	for i, name := range targetNames {
		id, _, resolveErr := a.configLoader.Resolve(cwd, name)
		if resolveErr != nil {
			return nil, zerr.With(zerr.Wrap(resolveErr, "failed to resolve target"), "target", name)
		}
		roots[i] = id
	}

	graph, err := domain.BuildGraph(roots, func(id domain.ProjectID) (*domain.ParsedProject, error) {
		return a.configLoader.Parse(id, id.String())
	})
	if err != nil {
		return graph, zerr.Wrap(err, "failed to build project graph")
	}
	return graph, nil
}

// Build runs a single build pass over targetNames and returns the process
// exit code.
func (a *App) Build(ctx context.Context, targetNames []string, opts driver.Options) (int, error) {
	graph, err := a.resolveGraph(targetNames)
	if err != nil {
		return driver.ExitDiagnosticsPresent, err
	}
	return a.driver.BuildAll(ctx, graph, opts), nil
}

// Clean deletes (or, in dry mode, reports) every expected output of
// targetNames and the projects they reference.
func (a *App) Clean(targetNames []string, opts driver.Options) (int, error) {
	graph, err := a.resolveGraph(targetNames)
	if err != nil {
		return driver.ExitDiagnosticsPresent, err
	}
	return a.driver.CleanAll(graph, opts), nil
}

// Watch runs an initial build over targetNames, then installs filesystem
// watches and drives the debounced invalidation/rebuild cycle until ctx is
// cancelled. When ui is true, a Bubble Tea dashboard runs alongside the
// driver, rendering one row per project fed by the OTel spans the driver
// opens around each build attempt.
func (a *App) Watch(ctx context.Context, targetNames []string, opts driver.Options, root string, debounce time.Duration, ui bool) error {
	graph, err := a.resolveGraph(targetNames)
	if err != nil {
		return err
	}

	if !ui {
		a.driver.BuildAll(ctx, graph, opts)
		return a.driver.RunWatch(ctx, graph, a.watcher, newDebouncer, root, debounce, opts)
	}

	model := tui.NewModel()
	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
	program := tea.NewProgram(model, programOpts...)

	bridge := telemetry.NewTUIBridge(program)
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	otel.SetTracerProvider(tracerProvider)
	defer func() { _ = tracerProvider.Shutdown(ctx) }()

	a.driver.SetStatusReporter(tui.NewReporter(a.statusReport, program))
	defer a.driver.SetStatusReporter(a.statusReport)

	queue := graph.BuildQueue()
	names := make([]string, len(queue))
	for i, id := range queue {
		names[i] = id.String()
	}
	program.Send(telemetry.MsgInitProjects{Projects: names})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, runErr := program.Run()
		return runErr
	})

	g.Go(func() error {
		defer program.Quit()
		a.driver.BuildAll(ctx, graph, opts)
		return a.driver.RunWatch(ctx, graph, a.watcher, newDebouncer, root, debounce, opts)
	})

	return g.Wait()
}
