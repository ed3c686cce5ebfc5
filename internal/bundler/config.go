package bundler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// BundlerConfig holds the user facing bundler settings. Entry points and output
// locations are owned by the loader overlay and can't be set here.
type BundlerConfig struct {
	// Files injected into the bundle ahead of the loader entry (e.g., global setup)
	Inject []string `yaml:"inject"`
	// Global identifier replacements, values are JS expressions
	Define map[string]string `yaml:"define"`
	// File extension to loader name (e.g., ".svg": "dataurl")
	Loader map[string]string `yaml:"loader"`
	// Imports left out of the bundle
	External []string `yaml:"external"`
	// Import path substitutions
	Alias map[string]string `yaml:"alias"`
	// Language target (e.g., "es2020")
	Target string `yaml:"target"`
	// JSX mode: automatic, transform or preserve
	JSX string `yaml:"jsx"`
	// Whether to minify output
	Minify bool `yaml:"minify"`
	// Whether to emit linked source maps
	SourceMap bool `yaml:"sourceMap"`
	// URL prefix for assets referenced from the bundle
	PublicPath string `yaml:"publicPath"`
}

var (
	knownLoaders = []string{"base64", "binary", "copy", "css", "dataurl", "empty", "file", "js", "json", "jsx", "text", "ts", "tsx"}
	knownTargets = []string{"es2015", "es2016", "es2017", "es2018", "es2019", "es2020", "es2021", "es2022", "esnext"}
	knownJSX     = []string{"automatic", "transform", "preserve"}
)

// Validate checks loader, target and jsx names.
func (c BundlerConfig) Validate() error {
	for ext, name := range c.Loader {
		if !slices.Contains(knownLoaders, name) {
			return fmt.Errorf("unknown loader %q for %q", name, ext)
		}
	}
	if c.Target != "" && !slices.Contains(knownTargets, c.Target) {
		return fmt.Errorf("unknown target %q", c.Target)
	}
	if c.JSX != "" && !slices.Contains(knownJSX, c.JSX) {
		return fmt.Errorf("unknown jsx mode %q", c.JSX)
	}
	return nil
}

// Loader produces a bundler configuration.
type Loader interface {
	Load() (BundlerConfig, error)
}

// FileConfigLoader reads a YAML or JSON bundler configuration file. The file may
// hold the settings directly or nest them under a single "default" key.
type FileConfigLoader struct {
	Path string
}

func (l FileConfigLoader) Load() (BundlerConfig, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return BundlerConfig{}, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return BundlerConfig{}, err
	}

	var cfg BundlerConfig
	if len(doc.Content) == 0 {
		return cfg, nil
	}

	// re-encode so unknown keys, like entry points owned by the overlay, are rejected
	body, err := yaml.Marshal(unwrapDefault(doc.Content[0]))
	if err != nil {
		return BundlerConfig{}, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(body))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return BundlerConfig{}, err
	}

	return cfg, nil
}

func unwrapDefault(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.MappingNode && len(node.Content) == 2 && node.Content[0].Value == "default" {
		return node.Content[1]
	}
	return node
}

// DefaultConfigSynthesizer builds a configuration for projects without a
// bundler configuration file.
type DefaultConfigSynthesizer struct {
	RootPath string
}

func (s DefaultConfigSynthesizer) Load() (BundlerConfig, error) {
	return BundlerConfig{
		Target: "es2020",
		JSX:    "automatic",
		Loader: map[string]string{
			".js":    "jsx",
			".jsx":   "jsx",
			".ts":    "ts",
			".tsx":   "tsx",
			".css":   "css",
			".json":  "json",
			".png":   "file",
			".jpg":   "file",
			".jpeg":  "file",
			".gif":   "file",
			".svg":   "file",
			".woff":  "file",
			".woff2": "file",
		},
		Define: map[string]string{
			"process.env.NODE_ENV": `"development"`,
		},
	}, nil
}

// LoaderFor selects the file loader when a regular file exists at path and
// falls back to the synthesizer otherwise.
func LoaderFor(path, rootPath string) Loader {
	if path != "" {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return FileConfigLoader{Path: path}
		}
	}
	return DefaultConfigSynthesizer{RootPath: rootPath}
}

// ResolveBundlerConfig loads the bundler configuration at path, or synthesizes
// the default one. Errors from loading a user file are returned unmodified.
func ResolveBundlerConfig(ctx context.Context, path, rootPath string) (BundlerConfig, error) {
	loader := LoaderFor(path, rootPath)

	switch loader.(type) {
	case FileConfigLoader:
		zerolog.Ctx(ctx).Info().Str("path", path).Msg("Using bundler config")
	default:
		zerolog.Ctx(ctx).Info().Msg("No bundler config found, using default config")
	}

	return loader.Load()
}
