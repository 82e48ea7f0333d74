package domain

// ProjectReference is an edge from one project to another project it
// depends on. Prepend requests that the referenced project's emitted
// JavaScript be concatenated ahead of this project's own output (which
// defeats the declaration-only fast rebuild, see classifier.Classifier.Classify).
// Circular marks the edge as an intentionally legal back-edge: graph
// construction must not report a cycle error along this edge.
type ProjectReference struct {
	Path     ProjectID
	Prepend  bool
	Circular bool
}

// CompilerOptions is the subset of compiler options the core cares about
// for output-name derivation and emit decisions. Everything else in a real
// configuration file is opaque to this package.
type CompilerOptions struct {
	OutFile         string
	OutDir          string
	DeclarationDir  string
	RootDir         string
	SourceMap       bool
	DeclarationMap  bool
	JSXPreserve     bool
	NoEmit          bool
	EmitDeclarations bool
}

// ParsedProject is the output of the external configuration parser for a
// single project configuration file.
type ParsedProject struct {
	ID              ProjectID
	ConfigDir       string
	Inputs          []string
	References      []ProjectReference
	Options         CompilerOptions
	WildcardDirs    []string
	ParseDiagnostics []string
}

// IsCompositeContainer reports whether this project exists purely to
// group references and itself has no inputs to compile.
func (p *ParsedProject) IsCompositeContainer() bool {
	return len(p.Inputs) == 0
}
