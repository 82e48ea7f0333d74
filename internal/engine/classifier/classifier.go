// Package classifier implements the up-to-date classification algorithm:
// for a parsed project, decide which of the nine domain.Status variants
// applies, consulting upstream project references recursively.
package classifier

import (
	"time"

	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

// StatusMemo is the per-project status memo the build driver owns across
// classify calls within a build or watch session. It is satisfied by
// adapters/cache.StatusStore; defined here so the classification logic
// depends only on domain and ports (node.go's graft registration is the one
// file that imports concrete adapters).
type StatusMemo interface {
	Get(id domain.ProjectID) (domain.Status, bool)
	Put(id domain.ProjectID, status domain.Status)
	Evict(id domain.ProjectID)
}

// Classifier computes domain.Status for projects in a graph.
type Classifier struct {
	host      ports.Host
	unchanged *domain.UnchangedOutputsMap
	memo      StatusMemo
}

// New creates a Classifier.
func New(host ports.Host, unchanged *domain.UnchangedOutputsMap, memo StatusMemo) *Classifier {
	return &Classifier{host: host, unchanged: unchanged, memo: memo}
}

// Unchanged returns the UnchangedOutputsMap this Classifier consults for
// declaration-stability checks, so the build driver can record into the
// same instance it classifies against after every emit.
func (c *Classifier) Unchanged() *domain.UnchangedOutputsMap {
	return c.unchanged
}

// Classify returns the up-to-date status of id within graph, consulting
// (and populating) the status memo. References are classified recursively;
// a legal circular reference that loops back into a project still being
// classified on this call stack is treated as UpstreamOutOfDate rather
// than recursed into again — a true cycle cannot have every member
// UpToDate before the others are known, and the caller drives the next
// build queue pass to settle it.
func (c *Classifier) Classify(graph *domain.Graph, id domain.ProjectID) domain.Status {
	visiting := make(map[domain.ProjectID]bool)
	return c.classify(graph, id, visiting)
}

func (c *Classifier) classify(graph *domain.Graph, id domain.ProjectID, visiting map[domain.ProjectID]bool) domain.Status {
	if status, ok := c.memo.Get(id); ok {
		return status
	}
	if visiting[id] {
		return domain.UpstreamOutOfDate{UpstreamProject: id}
	}
	visiting[id] = true
	defer delete(visiting, id)

	status := c.classifyOnce(graph, id, visiting)
	c.memo.Put(id, status)
	return status
}

//nolint:cyclop // the classification algorithm is an inherently branchy decision table
func (c *Classifier) classifyOnce(graph *domain.Graph, id domain.ProjectID, visiting map[domain.ProjectID]bool) domain.Status {
	project, ok := graph.Project(id)
	if !ok {
		return domain.Unbuildable{Reason: "project not found: " + id.String()}
	}

	outputs := domain.ExpectedOutputs(project)
	if len(outputs) == 0 {
		return domain.ContainerOnly{}
	}

	var newestInputFile string
	var newestInputTime time.Time
	for _, input := range project.Inputs {
		if !c.host.FileExists(input) {
			return domain.Unbuildable{Reason: input + " does not exist"}
		}
		t, err := c.host.ModTime(input)
		if err != nil {
			return domain.Unbuildable{Reason: input + " does not exist"}
		}
		if t.After(newestInputTime) {
			newestInputTime = t
			newestInputFile = input
		}
	}

	var (
		oldestOutputFile      string
		oldestOutputTime      time.Time
		haveOldestOutput      bool
		newestOutputFile      string
		newestOutputTime      time.Time
		missingOutputFileName string
		isOutOfDateWithInputs bool
		newestDeclChangeTime  time.Time
	)

	for _, out := range outputs {
		exists := c.host.FileExists(out.Path)
		if !exists {
			if missingOutputFileName == "" {
				missingOutputFileName = out.Path
			}
			continue
		}

		t, err := c.host.ModTime(out.Path)
		if err != nil {
			if missingOutputFileName == "" {
				missingOutputFileName = out.Path
			}
			continue
		}

		if !haveOldestOutput || t.Before(oldestOutputTime) {
			oldestOutputTime = t
			oldestOutputFile = out.Path
			haveOldestOutput = true
		}
		if t.After(newestOutputTime) {
			newestOutputTime = t
			newestOutputFile = out.Path
		}
		if newestInputTime.After(t) {
			isOutOfDateWithInputs = true
		}

		if out.IsDeclaration {
			declTime := t
			if recorded, ok := c.unchanged.Lookup(out.Path); ok {
				declTime = recorded
			}
			if declTime.After(newestDeclChangeTime) {
				newestDeclChangeTime = declTime
			}
		}
	}

	var pseudoUpToDate, anyPrepend bool

	for _, ref := range project.References {
		upstream := c.classify(graph, ref.Path, visiting)

		if _, blocked := upstream.(domain.Unbuildable); blocked {
			return domain.UpstreamBlocked{UpstreamProject: ref.Path}
		}
		if !domain.IsUpToDate(upstream) {
			return domain.UpstreamOutOfDate{UpstreamProject: ref.Path}
		}

		if ref.Prepend {
			anyPrepend = true
		}

		upstreamNewestInput, upstreamDeclChange := upstreamTimes(upstream)

		switch {
		case !upstreamNewestInput.After(oldestOutputTime):
			// Upstream's inputs are no newer than our oldest output; it
			// cannot make us stale.
		case !upstreamDeclChange.After(oldestOutputTime):
			pseudoUpToDate = true
		default:
			return domain.OutOfDateWithUpstream{OldestOutputFile: oldestOutputFile, UpstreamProject: ref.Path}
		}
	}

	// A prepend reference anywhere among the project's references defeats
	// the pseudo-up-to-date fast path set by any reference, not just the
	// one that happens to be Prepend: prepended output ordering depends on
	// every upstream's emitted content, so a stale declaration anywhere
	// forces a real rebuild.
	prependDefeatsPseudo := anyPrepend && pseudoUpToDate

	switch {
	case missingOutputFileName != "":
		return domain.OutputMissing{MissingOutputFile: missingOutputFileName}
	case isOutOfDateWithInputs:
		return domain.OutOfDateWithSelf{OldestOutputFile: oldestOutputFile, NewerInputFile: newestInputFile}
	case prependDefeatsPseudo:
		return domain.OutOfDateWithUpstream{OldestOutputFile: oldestOutputFile}
	case pseudoUpToDate:
		return domain.UpToDateWithUpstreamTypes{
			NewestInputFile:             newestInputFile,
			NewestInputTime:             newestInputTime,
			OldestOutputFile:            oldestOutputFile,
			OldestOutputTime:            oldestOutputTime,
			NewestOutputFile:            newestOutputFile,
			NewestOutputTime:            newestOutputTime,
			NewestDeclarationChangeTime: newestDeclChangeTime,
		}
	default:
		return domain.UpToDate{
			NewestInputFile:             newestInputFile,
			NewestInputTime:             newestInputTime,
			OldestOutputFile:            oldestOutputFile,
			OldestOutputTime:            oldestOutputTime,
			NewestOutputFile:            newestOutputFile,
			NewestOutputTime:            newestOutputTime,
			NewestDeclarationChangeTime: newestDeclChangeTime,
		}
	}
}

// upstreamTimes extracts the newest-input and newest-declaration-change
// times from an upstream status already known to be UpToDate or
// UpToDateWithUpstreamTypes.
func upstreamTimes(status domain.Status) (newestInput, newestDeclChange time.Time) {
	switch s := status.(type) {
	case domain.UpToDate:
		return s.NewestInputTime, s.NewestDeclarationChangeTime
	case domain.UpToDateWithUpstreamTypes:
		return s.NewestInputTime, s.NewestDeclarationChangeTime
	default:
		return time.Time{}, time.Time{}
	}
}
