package bundler

import (
	"encoding/json"
	"slices"
	"time"
)

// Options is the merged bundler input: the user configuration plus the
// loader overlay's entry and output settings.
type Options struct {
	BundlerConfig

	// Source of the synthetic loader entry point
	EntrySource string
	// Display name of the synthetic entry in diagnostics
	EntryName string
	// Directory imports in EntrySource resolve against
	ResolveDir string
	// Bundle file written by the build
	Outfile string
	// HTML page loading Outfile, empty to skip
	HTMLFile string
	// Global variable the loader exports its modules under
	GlobalName string
	// Production mode
	Export bool
}

// OutputDir is the directory the bundle is written to.
func (o Options) OutputDir() string {
	return dirOf(o.Outfile)
}

// Stats summarise a finished build.
type Stats struct {
	Outputs  map[string]OutputInfo
	Warnings []string
	Duration time.Duration
}

// Files returns the output paths in sorted order.
func (s Stats) Files() []string {
	files := make([]string, 0, len(s.Outputs))
	for path := range s.Outputs {
		files = append(files, path)
	}
	slices.Sort(files)
	return files
}

// Bytes is the total size of all outputs.
func (s Stats) Bytes() int {
	total := 0
	for _, out := range s.Outputs {
		total += out.Bytes
	}
	return total
}

type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
	Bytes      int          `json:"bytes"`
}

type ImportInfo struct {
	Path string `json:"path"`
}

// ParseMetafile decodes a bundler metafile into build metadata.
func ParseMetafile(data []byte) (*BuildMetadata, error) {
	var metadata BuildMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}
