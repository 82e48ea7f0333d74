package config

// ProjectFile is the on-disk YAML schema of a project configuration file,
// conventionally named project.yaml.
type ProjectFile struct {
	References      []ReferenceDTO     `yaml:"references"`
	CompilerOptions CompilerOptionsDTO `yaml:"compilerOptions"`
	Input           []string           `yaml:"input"`
	WildcardDirs    []string           `yaml:"wildcardDirectories"`
}

// ReferenceDTO is one entry of a project file's references list.
type ReferenceDTO struct {
	Path     string `yaml:"path"`
	Prepend  bool   `yaml:"prepend"`
	Circular bool   `yaml:"circular"`
}

// CompilerOptionsDTO is the subset of compiler options this orchestrator
// reads out of a project file; unrecognized keys are ignored so the file
// may carry additional options meaningful only to the compiler itself.
type CompilerOptionsDTO struct {
	OutFile        string `yaml:"outFile"`
	OutDir         string `yaml:"outDir"`
	DeclarationDir string `yaml:"declarationDir"`
	RootDir        string `yaml:"rootDir"`
	SourceMap      bool   `yaml:"sourceMap"`
	DeclarationMap bool   `yaml:"declarationMap"`
	JSX            string `yaml:"jsx"`
	NoEmit         bool   `yaml:"noEmit"`
	Declaration    bool   `yaml:"declaration"`
}
