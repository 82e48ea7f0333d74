package domain

import "time"

// Status is the up-to-date classification of a project. It is a closed sum
// type: every concrete implementation lives in this file and carries only
// the fields that variant needs, rather than a single struct with a field
// per possible reason.
type Status interface {
	isStatus()
}

// Unbuildable means the project cannot be built at all, e.g. because one of
// its input files does not exist or an earlier build stage failed.
type Unbuildable struct {
	Reason string
}

func (Unbuildable) isStatus() {}

// ContainerOnly means the project has no outputs of its own; it exists only
// to reference other projects.
type ContainerOnly struct{}

func (ContainerOnly) isStatus() {}

// UpToDate means every output is newer than every input and every upstream
// reference, and no declaration-output instability was detected.
type UpToDate struct {
	NewestInputFile             string
	NewestInputTime             time.Time
	OldestOutputFile             string
	OldestOutputTime             time.Time
	NewestOutputFile             string
	NewestOutputTime             time.Time
	NewestDeclarationChangeTime time.Time
}

func (UpToDate) isStatus() {}

// UpToDateWithUpstreamTypes means the project's own outputs are current,
// but an upstream project's declaration output changed after our oldest
// output was written. It is eligible for the timestamp-touch fast rebuild
// rather than a full recompile.
type UpToDateWithUpstreamTypes struct {
	NewestInputFile             string
	NewestInputTime             time.Time
	OldestOutputFile             string
	OldestOutputTime             time.Time
	NewestOutputFile             string
	NewestOutputTime             time.Time
	NewestDeclarationChangeTime time.Time
}

func (UpToDateWithUpstreamTypes) isStatus() {}

// OutputMissing means at least one expected output file does not exist.
type OutputMissing struct {
	MissingOutputFile string
}

func (OutputMissing) isStatus() {}

// OutOfDateWithSelf means an input file is newer than an output file.
type OutOfDateWithSelf struct {
	OldestOutputFile string
	NewerInputFile   string
}

func (OutOfDateWithSelf) isStatus() {}

// OutOfDateWithUpstream means an upstream reference's inputs (or, for a
// prepend reference, its declaration output) are newer than our own
// outputs and a full rebuild is required.
type OutOfDateWithUpstream struct {
	OldestOutputFile string
	UpstreamProject  ProjectID
}

func (OutOfDateWithUpstream) isStatus() {}

// UpstreamOutOfDate means an upstream reference is itself not UpToDate (or
// UpToDateWithUpstreamTypes), so this project cannot yet be classified
// further until the upstream project is rebuilt.
type UpstreamOutOfDate struct {
	UpstreamProject ProjectID
}

func (UpstreamOutOfDate) isStatus() {}

// UpstreamBlocked means an upstream reference is Unbuildable, so this
// project can never be built until that is fixed.
type UpstreamBlocked struct {
	UpstreamProject ProjectID
}

func (UpstreamBlocked) isStatus() {}

// IsUpToDate reports whether s is either UpToDate or
// UpToDateWithUpstreamTypes — the two variants that do not require a full
// rebuild.
func IsUpToDate(s Status) bool {
	switch s.(type) {
	case UpToDate, UpToDateWithUpstreamTypes:
		return true
	default:
		return false
	}
}
