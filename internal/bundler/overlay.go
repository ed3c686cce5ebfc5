package bundler

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	// LoaderDir is the directory under the output path holding the loader bundle
	LoaderDir = "loader"
	// LoaderGlobal is the global the loader bundle exposes its modules under
	LoaderGlobal = "__playgroundLoader"

	loaderEntryName = "playground-loader.js"
)

// Overlay turns a user bundler configuration into options producing the
// self-contained loader bundle.
type Overlay struct {
	// Project root, module patterns resolve against it
	RootPath string
	// Export output directory, the bundle goes to OutputDir/loader
	OutputDir string
	// Glob patterns of modules imported by the loader entry
	Modules []string
	// Production build
	Export bool
}

// Apply merges cfg with the loader settings. cfg is not modified.
func (o Overlay) Apply(cfg BundlerConfig) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}

	modules, err := o.resolveModules()
	if err != nil {
		return Options{}, err
	}

	merged := cfg
	merged.Define = maps.Clone(cfg.Define)
	if merged.Define == nil {
		merged.Define = map[string]string{}
	}
	merged.Inject = absPaths(o.RootPath, cfg.Inject)

	if o.Export {
		merged.Define["process.env.NODE_ENV"] = strconv.Quote("production")
		merged.Minify = true
	}

	loaderDir := filepath.Join(o.OutputDir, LoaderDir)

	return Options{
		BundlerConfig: merged,
		EntrySource:   loaderEntrySource(o.RootPath, modules),
		EntryName:     loaderEntryName,
		ResolveDir:    o.RootPath,
		Outfile:       filepath.Join(loaderDir, "index.js"),
		HTMLFile:      filepath.Join(loaderDir, "index.html"),
		GlobalName:    LoaderGlobal,
		Export:        o.Export,
	}, nil
}

func (o Overlay) resolveModules() ([]string, error) {
	seen := map[string]bool{}
	var modules []string

	for _, pattern := range o.Modules {
		matches, err := filepath.Glob(filepath.Join(o.RootPath, pattern))
		if err != nil {
			return nil, fmt.Errorf("module pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				modules = append(modules, match)
			}
		}
	}

	if len(modules) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoModules, strings.Join(o.Modules, ", "))
	}

	slices.Sort(modules)
	return modules, nil
}

// loaderEntrySource imports every module and exports them keyed by their
// slash separated path relative to root.
func loaderEntrySource(root string, modules []string) string {
	var b strings.Builder

	for i, module := range modules {
		fmt.Fprintf(&b, "import * as m%d from %s;\n", i, strconv.Quote(filepath.ToSlash(module)))
	}

	b.WriteString("\nexport const modules = {\n")
	for i, module := range modules {
		key := module
		if rel, err := filepath.Rel(root, module); err == nil {
			key = rel
		}
		fmt.Fprintf(&b, "  %s: m%d,\n", strconv.Quote(filepath.ToSlash(key)), i)
	}
	b.WriteString("};\n")

	return b.String()
}

func absPaths(root string, paths []string) []string {
	if paths == nil {
		return nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		out = append(out, filepath.Join(root, p))
	}
	return out
}

func dirOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}
