// Package domain contains the core domain models for the project reference
// graph, the up-to-date status sum type, and the state maps the build
// driver mutates.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// visitState is the three-color DFS marking used by BuildGraph.
type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

// Graph is the project reference graph: a bidirectional mapping between
// projects and the projects they reference, plus the topologically
// ordered build queue computed by BuildGraph. Every traversed edge is
// recorded in the bidirectional map even if construction ultimately fails,
// so that watch-mode downstream invalidation can still find dependents of
// a project that failed to parse.
type Graph struct {
	projects   map[ProjectID]*ParsedProject
	children   map[ProjectID][]ProjectReference
	parents    map[ProjectID][]ProjectID
	buildQueue []ProjectID
}

func newGraph() *Graph {
	return &Graph{
		projects: make(map[ProjectID]*ParsedProject),
		children: make(map[ProjectID][]ProjectReference),
		parents:  make(map[ProjectID][]ProjectID),
	}
}

// Project returns the parsed project for id, if it was reached during
// construction.
func (g *Graph) Project(id ProjectID) (*ParsedProject, bool) {
	p, ok := g.projects[id]
	return p, ok
}

// References returns the outgoing project references for id, in
// declaration order.
func (g *Graph) References(id ProjectID) []ProjectReference {
	return g.children[id]
}

// Parents returns the projects that reference id, in discovery order.
func (g *Graph) Parents(id ProjectID) []ProjectID {
	return g.parents[id]
}

// BuildQueue returns the projects in dependency-leaves-first order: every
// reference edge (parent -> child) has the child at a strictly earlier
// index than the parent. It is nil if construction failed.
func (g *Graph) BuildQueue() []ProjectID {
	return g.buildQueue
}

// Walk returns an iterator over the build queue in order.
func (g *Graph) Walk() iter.Seq[ProjectID] {
	return func(yield func(ProjectID) bool) {
		for _, id := range g.buildQueue {
			if !yield(id) {
				return
			}
		}
	}
}

// Loader fetches (and memoizes, per the config cache) the parsed project
// for an identifier. It returns an error when the configuration could not
// be parsed; BuildGraph treats that as a traversal failure for that
// subtree without aborting the whole walk.
type Loader func(id ProjectID) (*ParsedProject, error)

// BuildGraph performs a depth-first traversal from roots, recording every
// reference edge into the returned Graph's bidirectional map regardless of
// whether the subtree ultimately succeeds, and computing a post-order
// build queue. It returns a non-nil error if any config file failed to
// parse, or if a reference path revisited a project currently being
// traversed over an edge that was not declared circular; the returned
// Graph is still populated with whatever edges were discovered, but its
// BuildQueue is nil.
func BuildGraph(roots []ProjectID, load Loader) (*Graph, error) {
	g := newGraph()
	state := make(map[ProjectID]visitState)
	var path []ProjectID
	var queue []ProjectID
	var firstErr error

	var visit func(id ProjectID, inCircularContext bool)
	visit = func(id ProjectID, inCircularContext bool) {
		state[id] = visiting
		path = append(path, id)
		defer func() {
			path = path[:len(path)-1]
		}()

		project, err := load(id)
		if err != nil {
			if firstErr == nil {
				firstErr = zerr.With(zerr.Wrap(err, "failed to parse project"), "project", id.String())
			}
			state[id] = done
			return
		}
		g.projects[id] = project

		for _, ref := range project.References {
			g.children[id] = append(g.children[id], ref)
			g.parents[ref.Path] = append(g.parents[ref.Path], id)

			childCircular := inCircularContext || ref.Circular

			switch state[ref.Path] {
			case visiting:
				if !childCircular {
					if firstErr == nil {
						firstErr = buildCycleError(path, ref.Path)
					}
				}
			case unvisited:
				visit(ref.Path, childCircular)
			}
		}

		state[id] = done
		queue = append(queue, id)
	}

	for _, root := range roots {
		if state[root] == unvisited {
			visit(root, false)
		}
	}

	if firstErr != nil {
		return g, firstErr
	}
	g.buildQueue = queue
	return g, nil
}

func buildCycleError(path []ProjectID, dep ProjectID) error {
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	var b strings.Builder
	if startIdx >= 0 {
		for i := startIdx; i < len(path); i++ {
			b.WriteString(path[i].String())
			b.WriteString(" -> ")
		}
	}
	b.WriteString(dep.String())
	return zerr.With(ErrReferenceCycle, "cycle", b.String())
}
