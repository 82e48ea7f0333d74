// Package report implements the two diagnostic-reporting ports (compiler
// diagnostics, solution-builder status messages) over structured logging,
// the way adapters/logger writes everything else in this module.
package report

import (
	"fmt"

	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

var (
	_ ports.DiagnosticReporter = (*Reporter)(nil)
	_ ports.StatusReporter     = (*Reporter)(nil)
)

// Reporter surfaces compiler diagnostics and build-driver status messages
// through a ports.Logger, so the destination (stderr text, or whatever the
// logger adapter is configured for) stays in one place.
type Reporter struct {
	log ports.Logger
}

// New creates a Reporter.
func New(log ports.Logger) *Reporter {
	return &Reporter{log: log}
}

// ReportDiagnostics logs each diagnostic for project, one line per
// diagnostic so multiple projects' errors in one build all surface.
func (r *Reporter) ReportDiagnostics(project domain.ProjectID, diagnostics []ports.Diagnostic) {
	for _, d := range diagnostics {
		severity := "error"
		if !d.Fatal {
			severity = "warning"
		}
		r.log.Info(fmt.Sprintf("%s: %s: %s: %s", project.String(), severity, d.File, d.Message))
	}
}

// ReportStatus logs a single project's classified status. Non-actionable
// statuses (ContainerOnly, UpstreamBlocked) are suppressed unless verbose.
func (r *Reporter) ReportStatus(project domain.ProjectID, status domain.Status, verbose bool) {
	switch status.(type) {
	case domain.ContainerOnly, domain.UpstreamBlocked:
		if !verbose {
			return
		}
	}
	r.log.Info(fmt.Sprintf("%s: %s", project.String(), describe(status)))
}

// ReportClean logs that path would be deleted by a dry-run clean.
func (r *Reporter) ReportClean(project domain.ProjectID, path string) {
	r.log.Info(fmt.Sprintf("%s: would delete %s", project.String(), path))
}

// ReportBuildQueue logs the computed build-queue order, verbose-only.
func (r *Reporter) ReportBuildQueue(order []domain.ProjectID) {
	names := make([]string, len(order))
	for i, id := range order {
		names[i] = id.String()
	}
	r.log.Info(fmt.Sprintf("build queue: %v", names))
}

// ReportWatchSummary logs the total error count across a watch-mode
// invalidation drain, using the singular form for exactly one error.
func (r *Reporter) ReportWatchSummary(errorCount int) {
	if errorCount == 1 {
		r.log.Info("Found 1 error. Watching for file changes.")
		return
	}
	r.log.Info(fmt.Sprintf("Found %d errors. Watching for file changes.", errorCount))
}

func describe(status domain.Status) string {
	switch s := status.(type) {
	case domain.Unbuildable:
		return "unbuildable: " + s.Reason
	case domain.ContainerOnly:
		return "container only"
	case domain.UpToDate:
		return "up to date"
	case domain.UpToDateWithUpstreamTypes:
		return "up to date (declaration touch)"
	case domain.OutputMissing:
		return "output missing: " + s.MissingOutputFile
	case domain.OutOfDateWithSelf:
		return "out of date: " + s.NewerInputFile + " newer than " + s.OldestOutputFile
	case domain.OutOfDateWithUpstream:
		return "out of date with upstream " + s.UpstreamProject.String()
	case domain.UpstreamOutOfDate:
		return "upstream out of date: " + s.UpstreamProject.String()
	case domain.UpstreamBlocked:
		return "upstream blocked: " + s.UpstreamProject.String()
	default:
		return "unknown status"
	}
}
