package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.pbuild.dev/pbuild/internal/adapters/telemetry"
	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

var _ ports.StatusReporter = (*Reporter)(nil)

// Reporter decorates a ports.StatusReporter with messages to a running
// Bubble Tea program: it marks a project Skipped the moment the driver reports a status
// that never opens a compiler span, so the row doesn't sit at "Pending"
// forever. Every call still forwards to next, so logging behaves the same
// whether or not a dashboard is attached.
type Reporter struct {
	next    ports.StatusReporter
	program *tea.Program
}

// NewReporter wraps next, forwarding dashboard-relevant events to program.
func NewReporter(next ports.StatusReporter, program *tea.Program) *Reporter {
	return &Reporter{next: next, program: program}
}

// ReportBuildQueue forwards to next; the dashboard's project list is seeded
// once, up front, by the caller that already holds the graph (see
// app.App.Watch), independent of the --verbose flag this logs under.
func (r *Reporter) ReportBuildQueue(order []domain.ProjectID) {
	r.next.ReportBuildQueue(order)
}

// ReportStatus marks project Skipped on the dashboard when status carries
// no compiler span of its own.
func (r *Reporter) ReportStatus(project domain.ProjectID, status domain.Status, verbose bool) {
	switch status.(type) {
	case domain.UpToDate, domain.UpToDateWithUpstreamTypes, domain.ContainerOnly, domain.UpstreamBlocked:
		r.program.Send(telemetry.MsgProjectSkipped{Name: project.String()})
	}
	r.next.ReportStatus(project, status, verbose)
}

// ReportClean forwards to next; the dashboard has no clean-mode view.
func (r *Reporter) ReportClean(project domain.ProjectID, path string) {
	r.next.ReportClean(project, path)
}

// ReportWatchSummary forwards to next; the dashboard's row states already
// show the error count per project.
func (r *Reporter) ReportWatchSummary(errorCount int) {
	r.next.ReportWatchSummary(errorCount)
}
