package telemetry

import "time"

// MsgInitProjects seeds the UI's project list, in build-queue order, when a
// build session starts.
type MsgInitProjects struct {
	Projects []string
}

// MsgProjectStart indicates a project's build span has started.
type MsgProjectStart struct {
	SpanID    string
	ParentID  string // empty if root
	Name      string
	StartTime time.Time
}

// MsgProjectLog carries a chunk of compiler output for a project's build
// span.
type MsgProjectLog struct {
	SpanID string
	Data   []byte
}

// MsgProjectComplete indicates a project's build span has finished. A nil
// Err means the project is now up to date; a non-nil Err means the build
// failed.
type MsgProjectComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgProjectSkipped indicates the driver reported a status for a project
// that opens no build span for it: up to date (with or without upstream
// types), container-only, or upstream-blocked.
type MsgProjectSkipped struct {
	Name string
}
