package domain

import (
	"path/filepath"
	"strings"
)

// OutputFile is a single file a project is expected to produce.
// IsDeclaration marks it as relevant to the pseudo-up-to-date fast path's
// declaration-content-change scan (§4.D).
type OutputFile struct {
	Path          string
	IsDeclaration bool
}

// ExpectedOutputs computes the full set of files p is expected to produce,
// following the outFile/per-input derivation rules exactly (§6). It is a
// pure function of p's compiler options and input list — no filesystem
// access — so both the classifier and the cleaner can share it.
func ExpectedOutputs(p *ParsedProject) []OutputFile {
	if p.Options.OutFile != "" {
		return outFileOutputs(p.ConfigDir, p.Options)
	}
	return perInputOutputs(p)
}

// resolveDir joins a possibly-relative configuration path against the
// project's config directory, the way the loader leaves RootDir/OutDir/
// DeclarationDir/OutFile unresolved in the parsed project.
func resolveDir(configDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}

func outFileOutputs(configDir string, opts CompilerOptions) []OutputFile {
	outFile := resolveDir(configDir, opts.OutFile)
	var outputs []OutputFile
	outputs = append(outputs, OutputFile{Path: outFile})
	if opts.SourceMap {
		outputs = append(outputs, OutputFile{Path: outFile + ".map"})
	}
	if opts.EmitDeclarations {
		declPath := filepath.Join(filepath.Dir(outFile), filepath.Base(outFile)+".d.ts")
		outputs = append(outputs, OutputFile{Path: declPath, IsDeclaration: true})
		if opts.DeclarationMap {
			outputs = append(outputs, OutputFile{Path: declPath + ".map", IsDeclaration: true})
		}
	}
	return outputs
}

func perInputOutputs(p *ParsedProject) []OutputFile {
	if p.Options.NoEmit {
		return nil
	}

	rootDir := p.Options.RootDir
	if rootDir == "" {
		rootDir = p.ConfigDir
	} else {
		rootDir = resolveDir(p.ConfigDir, rootDir)
	}

	jsBase := p.Options.OutDir
	if jsBase == "" {
		jsBase = p.ConfigDir
	} else {
		jsBase = resolveDir(p.ConfigDir, jsBase)
	}
	declBase := p.Options.DeclarationDir
	if declBase == "" {
		declBase = jsBase
	} else {
		declBase = resolveDir(p.ConfigDir, declBase)
	}

	var outputs []OutputFile
	for _, input := range p.Inputs {
		if isDeclarationInput(input) {
			continue
		}

		rel, err := filepath.Rel(rootDir, input)
		if err != nil {
			rel = filepath.Base(input)
		}

		jsPath := replaceExt(filepath.Join(jsBase, rel), jsExtension(input, p.Options.JSXPreserve))
		outputs = append(outputs, OutputFile{Path: jsPath})
		if p.Options.SourceMap {
			outputs = append(outputs, OutputFile{Path: jsPath + ".map"})
		}

		if p.Options.EmitDeclarations && !isJSONInput(input) {
			declPath := replaceExt(filepath.Join(declBase, rel), ".d.ts")
			outputs = append(outputs, OutputFile{Path: declPath, IsDeclaration: true})
			if p.Options.DeclarationMap {
				outputs = append(outputs, OutputFile{Path: declPath + ".map", IsDeclaration: true})
			}
		}
	}
	return outputs
}

func isDeclarationInput(path string) bool {
	return strings.HasSuffix(path, ".d.ts") || strings.HasSuffix(path, ".d.mts") || strings.HasSuffix(path, ".d.cts")
}

func isJSONInput(path string) bool {
	return strings.HasSuffix(path, ".json")
}

func jsExtension(input string, jsxPreserve bool) string {
	switch {
	case isJSONInput(input):
		return ".json"
	case strings.HasSuffix(input, ".tsx") && jsxPreserve:
		return ".jsx"
	default:
		return ".js"
	}
}

func replaceExt(path, newExt string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + newExt
}
