package domain

import "go.trai.ch/zerr"

var (
	// ErrProjectAlreadyExists is returned when attempting to add a
	// project whose ID is already present in a graph.
	ErrProjectAlreadyExists = zerr.New("project already exists")

	// ErrMissingReference is returned when a project references another
	// project that was never added to the graph.
	ErrMissingReference = zerr.New("missing project reference")

	// ErrReferenceCycle is returned when a non-circular reference path
	// revisits a project still being traversed.
	ErrReferenceCycle = zerr.New("circular reference detected")

	// ErrProjectNotFound is returned when a requested project is not
	// present in a graph or config cache.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrConfigParse is returned when a configuration file cannot be
	// parsed into a ParsedProject.
	ErrConfigParse = zerr.New("failed to parse project configuration")

	// ErrNoTargetsSpecified is returned when a build, clean, or watch
	// invocation names no root projects.
	ErrNoTargetsSpecified = zerr.New("no targets specified")
)
