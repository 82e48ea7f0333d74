// Package driver implements the single-threaded build orchestrator:
// buildAll, cleanAll, and the watch-mode invalidation/rebuild cycle, all
// driven from one goroutine per SPEC_FULL §5's cooperative scheduling
// model. Its build logic depends only on domain, ports, and the classifier
// engine package; node.go's graft registration is the one file that imports
// concrete adapters.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
	"go.pbuild.dev/pbuild/internal/engine/classifier"
	"go.trai.ch/zerr"
)

// Exit codes, per SPEC_FULL §6's "Exit codes" table.
const (
	ExitSuccess            = 0
	ExitDiagnosticsPresent = 1
)

// StatusMemo mirrors classifier.StatusMemo so the driver's build logic does
// not depend on the concrete cache adapter (only node.go's wiring imports
// it); adapters/cache.StatusStore satisfies it structurally.
type StatusMemo interface {
	Get(id domain.ProjectID) (domain.Status, bool)
	Put(id domain.ProjectID, status domain.Status)
	Evict(id domain.ProjectID)
}

// ConfigCache is the slice of the config cache the driver needs: dropping
// a memoized parse when its config file changes on disk (a Full-reload
// event). adapters/cache.ConfigStore satisfies it structurally.
type ConfigCache interface {
	Evict(id domain.ProjectID)
}

// Options controls a single Driver invocation, per SPEC_FULL §6's
// recognized build options.
type Options struct {
	Dry     bool
	Force   bool
	Verbose bool
}

// Driver walks a project reference graph in build-queue order, consulting
// the classifier for each project's up-to-date status and invoking the
// compiler collaborator only for projects that actually need rebuilding.
// Every field here is driver-owned state; per SPEC_FULL §5 it is mutated
// only from the goroutine that calls Driver's methods.
type Driver struct {
	host         ports.Host
	compiler     ports.Compiler
	resolver     ports.InputResolver
	classifier   *classifier.Classifier
	statusMemo   StatusMemo
	configCache  ConfigCache
	unchanged    *domain.UnchangedOutputsMap
	diagReport   ports.DiagnosticReporter
	statusReport ports.StatusReporter
	tracer       ports.Tracer

	pending     *domain.PendingBuildMap
	errorCounts map[domain.ProjectID]bool
}

// New creates a Driver. tracer instruments every non-trivial build attempt
// as a span named after the project, the way the OTel bridge feeds the
// watch-mode dashboard; pass telemetry.NewNoOpTracer() when no dashboard is
// attached.
func New(
	host ports.Host,
	compiler ports.Compiler,
	resolver ports.InputResolver,
	cls *classifier.Classifier,
	statusMemo StatusMemo,
	configCache ConfigCache,
	unchanged *domain.UnchangedOutputsMap,
	diagReport ports.DiagnosticReporter,
	statusReport ports.StatusReporter,
	tracer ports.Tracer,
) *Driver {
	return &Driver{
		host:         host,
		compiler:     compiler,
		resolver:     resolver,
		classifier:   cls,
		statusMemo:   statusMemo,
		configCache:  configCache,
		unchanged:    unchanged,
		diagReport:   diagReport,
		statusReport: statusReport,
		tracer:       tracer,
		pending:      domain.NewPendingBuildMap(),
		errorCounts:  make(map[domain.ProjectID]bool),
	}
}

// BuildAll builds every project in graph's build queue and returns the
// process exit code, per SPEC_FULL §4.E's buildAll entry point.
func (d *Driver) BuildAll(ctx context.Context, graph *domain.Graph, opts Options) int {
	queue := graph.BuildQueue()
	if opts.Verbose {
		d.statusReport.ReportBuildQueue(queue)
	}
	d.tracer.EmitPlan(ctx, projectNames(queue))

	exitCode := ExitSuccess
	for _, id := range queue {
		if ctx.Err() != nil {
			return ExitDiagnosticsPresent
		}

		project, ok := graph.Project(id)
		if !ok {
			exitCode = ExitDiagnosticsPresent
			continue
		}

		status := d.classifier.Classify(graph, id)
		d.statusReport.ReportStatus(id, status, opts.Verbose)

		if opts.Force {
			if project.IsCompositeContainer() {
				continue
			}
			if !d.buildSingleProject(ctx, graph, id, project, opts).Has(domain.Success) {
				exitCode = ExitDiagnosticsPresent
			}
			continue
		}

		switch s := status.(type) {
		case domain.UpToDate:
			// Already current; dry mode already reported it above.
		case domain.UpToDateWithUpstreamTypes:
			if !d.applyTimestampTouch(id, project, s, opts).Has(domain.Success) {
				exitCode = ExitDiagnosticsPresent
			}
		case domain.UpstreamBlocked, domain.ContainerOnly:
			// Nothing to build; already reported above when verbose.
		default:
			if !d.buildSingleProject(ctx, graph, id, project, opts).Has(domain.Success) {
				exitCode = ExitDiagnosticsPresent
			}
		}
	}

	return exitCode
}

// applyTimestampTouch performs the declaration-stability fast rebuild: it
// sets every expected output's modification time to now and carries the
// declaration-change time recorded in the project's own
// UpToDateWithUpstreamTypes status into a fresh UpToDate status, without
// invoking the compiler at all.
func (d *Driver) applyTimestampTouch(id domain.ProjectID, project *domain.ParsedProject, s domain.UpToDateWithUpstreamTypes, opts Options) domain.BuildResult {
	if opts.Dry {
		return domain.Success
	}

	now := time.Now()
	for _, out := range domain.ExpectedOutputs(project) {
		if err := d.host.SetModTime(out.Path, now); err != nil {
			d.statusMemo.Put(id, domain.Unbuildable{Reason: "failed to touch output: " + out.Path})
			return 0
		}
	}

	d.statusMemo.Put(id, domain.UpToDate{
		NewestInputFile:             s.NewestInputFile,
		NewestInputTime:             s.NewestInputTime,
		OldestOutputFile:            s.OldestOutputFile,
		OldestOutputTime:            now,
		NewestOutputFile:            s.NewestOutputFile,
		NewestOutputTime:            now,
		NewestDeclarationChangeTime: s.NewestDeclarationChangeTime,
	})
	return domain.Success
}

// CleanAll deletes every currently-existing expected output across graph's
// build queue (or, in dry mode, reports what would be deleted), per
// SPEC_FULL §4.E's cleanAll entry point.
func (d *Driver) CleanAll(graph *domain.Graph, opts Options) int {
	seen := make(map[string]bool)
	exitCode := ExitSuccess

	for _, id := range graph.BuildQueue() {
		project, ok := graph.Project(id)
		if !ok {
			continue
		}

		for _, out := range domain.ExpectedOutputs(project) {
			if seen[out.Path] {
				continue
			}
			seen[out.Path] = true

			if !d.host.FileExists(out.Path) {
				continue
			}

			if opts.Dry {
				d.statusReport.ReportClean(id, out.Path)
				continue
			}
			if err := d.host.DeleteFile(out.Path); err != nil {
				exitCode = ExitDiagnosticsPresent
			}
		}
	}

	return exitCode
}

// buildSingleProject runs the full build protocol for a single project,
// per SPEC_FULL §4.E's "buildSingleProject protocol". Each early-return on
// failure memoizes an Unbuildable status with a textual reason.
func (d *Driver) buildSingleProject(ctx context.Context, graph *domain.Graph, id domain.ProjectID, project *domain.ParsedProject, opts Options) domain.BuildResult {
	// 1. Dry: the caller already reported the project's status; nothing
	// else to do.
	if opts.Dry {
		return domain.Success
	}

	// 2. Parse: a config file that failed to parse carries its fatal
	// diagnostics on the ParsedProject itself.
	if len(project.ParseDiagnostics) > 0 {
		diags := make([]ports.Diagnostic, len(project.ParseDiagnostics))
		for i, msg := range project.ParseDiagnostics {
			diags[i] = ports.Diagnostic{File: id.String(), Message: msg, Fatal: true}
		}
		d.diagReport.ReportDiagnostics(id, diags)
		d.statusMemo.Put(id, domain.Unbuildable{Reason: "config file failed to parse"})
		return domain.ConfigFileErrors
	}

	// 3. Empty input list: a solution-only composite project has nothing
	// to compile.
	if project.IsCompositeContainer() {
		return 0
	}

	ctx, span := d.tracer.Start(ctx, id.String())
	defer span.End()

	program, err := d.compiler.CreateProgram(ctx, project)
	if err != nil {
		span.RecordError(err)
		d.statusMemo.Put(id, domain.Unbuildable{Reason: "failed to create program: " + err.Error()})
		return domain.ConfigFileErrors
	}

	// 4. Options + config-parsing + syntactic diagnostics.
	syntacticDiags := append(program.OptionsDiagnostics(), program.SyntacticDiagnostics()...)
	if len(syntacticDiags) > 0 {
		d.diagReport.ReportDiagnostics(id, syntacticDiags)
		writeDiagnostics(span, syntacticDiags)
		span.RecordError(zerr.New("syntax or options errors"))
		d.statusMemo.Put(id, domain.Unbuildable{Reason: "syntax or options errors"})
		return domain.SyntaxErrors
	}

	// 5. Declaration diagnostics, only when declarations are emitted.
	if project.Options.EmitDeclarations {
		declDiags := program.DeclarationDiagnostics()
		if len(declDiags) > 0 {
			d.diagReport.ReportDiagnostics(id, declDiags)
			writeDiagnostics(span, declDiags)
			span.RecordError(zerr.New("declaration emit errors"))
			d.statusMemo.Put(id, domain.Unbuildable{Reason: "declaration emit errors"})
			return domain.DeclarationEmitErrors
		}
	}

	// 6. Semantic diagnostics.
	semanticDiags := program.SemanticDiagnostics()
	if len(semanticDiags) > 0 {
		d.diagReport.ReportDiagnostics(id, semanticDiags)
		writeDiagnostics(span, semanticDiags)
		span.RecordError(zerr.New("type errors"))
		d.statusMemo.Put(id, domain.Unbuildable{Reason: "type errors"})
		return domain.TypeErrors
	}

	// 7. Emit.
	declPaths := make(map[string]bool)
	for _, out := range domain.ExpectedOutputs(project) {
		if out.IsDeclaration {
			declPaths[out.Path] = true
		}
	}

	var anyDeclChanged bool
	var maxUnchangedTime time.Time

	writeFile := func(path string, content []byte, hasBOM bool) error {
		if declPaths[path] {
			if d.host.FileExists(path) {
				if existing, readErr := d.host.ReadFile(path); readErr == nil && bytes.Equal(existing, content) {
					if t, timeErr := d.host.ModTime(path); timeErr == nil {
						d.unchanged.Record(path, t)
						if t.After(maxUnchangedTime) {
							maxUnchangedTime = t
						}
					}
				} else {
					anyDeclChanged = true
					d.unchanged.Evict(path)
				}
			} else {
				anyDeclChanged = true
			}
		}
		return d.host.WriteFile(path, content, hasBOM)
	}

	if _, err := program.Emit(ctx, writeFile); err != nil {
		span.RecordError(err)
		d.statusMemo.Put(id, domain.Unbuildable{Reason: "emit failed: " + err.Error()})
		return 0
	}

	// 8. Success. Recompute the real status from what was just written,
	// then override the declaration-change time: a declaration that
	// actually changed content must force downstream projects into a full
	// rebuild rather than the pseudo-up-to-date fast path, so it is
	// stamped with this build's own time rather than the last time it was
	// seen unchanged.
	newestDeclChangeTime := maxUnchangedTime
	if anyDeclChanged {
		newestDeclChangeTime = time.Now()
	}

	d.statusMemo.Evict(id)
	status := d.classifier.Classify(graph, id)
	if up, ok := status.(domain.UpToDate); ok {
		up.NewestDeclarationChangeTime = newestDeclChangeTime
		d.statusMemo.Put(id, up)
	} else {
		d.statusMemo.Put(id, status)
	}

	result := domain.Success
	if !anyDeclChanged {
		result |= domain.DeclarationOutputUnchanged
	}
	return result
}

// InvalidateProject queues id for rebuild at least at level, evicting its
// memoized status and error count, then (if this is a new queue entry)
// cascades a None-level invalidation to every transitive parent so the
// next drain reclassifies them too. It reports whether id was not already
// queued, per SPEC_FULL §4.E's invalidateProject entry point.
func (d *Driver) InvalidateProject(graph *domain.Graph, id domain.ProjectID, level domain.ReloadLevel) bool {
	d.statusMemo.Evict(id)
	delete(d.errorCounts, id)

	isNew := d.pending.Invalidate(id, level)
	if isNew {
		d.cascadeToParents(graph, id)
	}
	return isNew
}

// cascadeToParents walks the child->parents graph breadth-first from id,
// invalidating every transitive parent at ReloadNone: the status eviction
// alone is enough to force their reclassification.
func (d *Driver) cascadeToParents(graph *domain.Graph, id domain.ProjectID) {
	visited := map[domain.ProjectID]bool{id: true}
	queue := []domain.ProjectID{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, parent := range graph.Parents(cur) {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			d.statusMemo.Evict(parent)
			d.pending.Invalidate(parent, domain.ReloadNone)
			queue = append(queue, parent)
		}
	}
}

// BuildInvalidatedProject pops one project from the invalidated queue,
// optionally re-expands its wildcard inputs for a Partial reload,
// classifies it, and builds it unless it is UpstreamBlocked or
// ContainerOnly. It reports whether the queue is now empty; when it is, the
// caller should emit the watch-mode summary via ErrorCount, per SPEC_FULL §4.E's
// buildInvalidatedProject entry point.
func (d *Driver) BuildInvalidatedProject(ctx context.Context, graph *domain.Graph, opts Options) (queueEmpty bool) {
	id, level, ok := d.pending.Pop()
	if !ok {
		return true
	}

	project, found := graph.Project(id)
	if !found {
		return d.pending.Len() == 0
	}

	if level >= domain.ReloadPartial {
		if err := d.refreshWildcardInputs(project); err != nil {
			d.statusMemo.Put(id, domain.Unbuildable{Reason: "failed to refresh inputs: " + err.Error()})
			d.errorCounts[id] = true
			return d.pending.Len() == 0
		}
	}

	status := d.classifier.Classify(graph, id)
	d.statusReport.ReportStatus(id, status, opts.Verbose)

	switch status.(type) {
	case domain.UpstreamBlocked, domain.ContainerOnly:
		return d.pending.Len() == 0
	}

	result := d.buildSingleProject(ctx, graph, id, project, opts)
	if result.Has(domain.Success) {
		delete(d.errorCounts, id)
	} else {
		d.errorCounts[id] = true
	}

	return d.pending.Len() == 0
}

// SetStatusReporter replaces the driver's status reporter. Callers use this
// to wrap the reporter configured at wiring time with a dashboard-aware
// decorator for the duration of a single UI-mode watch session; it must be
// called before BuildAll/RunWatch starts, never concurrently with them.
func (d *Driver) SetStatusReporter(r ports.StatusReporter) {
	d.statusReport = r
}

// Unchanged returns the UnchangedOutputsMap the driver records into after
// every emit, the same instance its classifier consults.
func (d *Driver) Unchanged() *domain.UnchangedOutputsMap {
	return d.unchanged
}

// ErrorCount reports the number of projects currently in a failed state
// across the current watch session, for the "Found N error(s)" summary.
func (d *Driver) ErrorCount() int {
	return len(d.errorCounts)
}

// refreshWildcardInputs re-expands a project's wildcard-directory input
// specs via the input resolver. WildcardDirs is the authoritative set of
// glob-style entries from the project configuration; explicit single-file
// entries never need re-expansion and so are not part of it.
func (d *Driver) refreshWildcardInputs(project *domain.ParsedProject) error {
	if len(project.WildcardDirs) == 0 {
		return nil
	}
	resolved, err := d.resolver.ResolveInputs(project.WildcardDirs, project.ConfigDir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve wildcard inputs"), "project", project.ID.String())
	}
	project.Inputs = resolved
	return nil
}

// projectNames renders a build queue as strings for Tracer.EmitPlan.
func projectNames(queue []domain.ProjectID) []string {
	names := make([]string, len(queue))
	for i, id := range queue {
		names[i] = id.String()
	}
	return names
}

// writeDiagnostics formats diagnostics onto span's log stream, so a
// watch-mode dashboard showing that project's span sees the same messages
// the diagnostic reporter logged.
func writeDiagnostics(span ports.Span, diags []ports.Diagnostic) {
	for _, d := range diags {
		_, _ = fmt.Fprintf(span, "%s: %s\n", d.File, d.Message)
	}
}
