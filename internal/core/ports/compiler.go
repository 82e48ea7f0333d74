// Package ports defines the core interfaces the engine depends on and the
// adapters package implements.
package ports

import (
	"context"

	"go.pbuild.dev/pbuild/internal/core/domain"
)

// Diagnostic is a single compiler-reported problem.
type Diagnostic struct {
	File    string
	Message string
	Fatal   bool
}

// Program is a compilation unit created from a parsed project and its
// (already classified) project references. It mirrors the "create
// program -> query diagnostics -> emit" protocol the build driver drives
// a single project through.
type Program interface {
	// OptionsDiagnostics reports problems with the compiler options
	// themselves, independent of any source file.
	OptionsDiagnostics() []Diagnostic
	// SyntacticDiagnostics reports parse errors in the project's input
	// files.
	SyntacticDiagnostics() []Diagnostic
	// SemanticDiagnostics reports type-level errors.
	SemanticDiagnostics() []Diagnostic
	// DeclarationDiagnostics reports problems specific to declaration
	// emit; only meaningful when the project emits declarations.
	DeclarationDiagnostics() []Diagnostic
	// Emit writes every output file via writeFile(path, content, hasBOM)
	// and returns the full list of paths written.
	Emit(ctx context.Context, writeFile func(path string, content []byte, hasBOM bool) error) ([]string, error)
}

// Compiler creates a Program for a parsed project. Implementations are an
// opaque collaborator from the core's point of view: how a program
// actually type-checks or emits code is not this module's concern.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	CreateProgram(ctx context.Context, project *domain.ParsedProject) (Program, error)
}
