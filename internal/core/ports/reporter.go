package ports

import "go.pbuild.dev/pbuild/internal/core/domain"

// DiagnosticReporter surfaces compiler diagnostics for a single project,
// decoupling the build driver from how diagnostics are actually
// presented (plain stderr lines, a TUI row, structured logs, ...).
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type DiagnosticReporter interface {
	ReportDiagnostics(project domain.ProjectID, diagnostics []Diagnostic)
}

// StatusReporter surfaces solution-builder status messages: what is being
// built, skipped, or touched, and the final watch-mode error summary.
type StatusReporter interface {
	ReportStatus(project domain.ProjectID, status domain.Status, verbose bool)
	ReportBuildQueue(order []domain.ProjectID)
	ReportWatchSummary(errorCount int)
	// ReportClean reports that path, an output of project, would be
	// deleted by a dry-run clean.
	ReportClean(project domain.ProjectID, path string)
}
