package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the project configuration file looked up when none is given.
const DefaultFile = "playground.config.yaml"

type ExportConfig struct {
	// Project root, all other relative paths resolve against it
	RootPath string `yaml:"rootPath"`
	// Glob patterns for the modules bundled into the loader (e.g., "src/*.fixture.jsx")
	ModulePaths []string `yaml:"modulePaths"`
	// Name of the registered bundler driver
	Bundler string `yaml:"bundler"`
	// Path to the user bundler configuration file
	BundlerConfigPath string `yaml:"bundlerConfigPath"`
	// Directory the export is written to
	OutputPath string `yaml:"outputPath"`
	// Optional directory of static files copied into the export
	PublicPath string `yaml:"publicPath"`
	// Sub path of OutputPath that PublicPath is copied to
	PublicURL string `yaml:"publicUrl"`
	// Write gzip siblings for text assets
	Precompress bool `yaml:"precompress"`
}

// Defaults returns the configuration used for keys missing from the project file.
func Defaults() ExportConfig {
	return ExportConfig{
		RootPath: ".",
		ModulePaths: []string{
			"src/*.fixture.js",
			"src/*.fixture.jsx",
			"src/*.fixture.ts",
			"src/*.fixture.tsx",
		},
		Bundler:           "esbuild",
		BundlerConfigPath: "bundler.config.yaml",
		OutputPath:        "playground-export",
		PublicURL:         "/",
	}
}

// Load reads the project configuration at path. A missing file is not an
// error, the defaults rooted at the file's directory are returned instead.
func Load(path string) (ExportConfig, error) {
	cfg := Defaults()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return ExportConfig{}, err
	}

	data, err := os.ReadFile(absPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults
	case err != nil:
		return ExportConfig{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ExportConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.resolve(filepath.Dir(absPath))

	if err := cfg.Validate(); err != nil {
		return ExportConfig{}, err
	}

	return cfg, nil
}

func (c *ExportConfig) resolve(baseDir string) {
	c.RootPath = absJoin(baseDir, c.RootPath)
	c.BundlerConfigPath = absJoin(c.RootPath, c.BundlerConfigPath)
	c.OutputPath = absJoin(c.RootPath, c.OutputPath)
	if c.PublicPath != "" {
		c.PublicPath = absJoin(c.RootPath, c.PublicPath)
	}
	if c.PublicURL == "" {
		c.PublicURL = "/"
	}
}

// Validate checks the resolved configuration.
func (c ExportConfig) Validate() error {
	if strings.TrimSpace(c.OutputPath) == "" {
		return errors.New("outputPath is required")
	}
	if c.Bundler == "" {
		return errors.New("bundler is required")
	}
	if len(c.ModulePaths) == 0 {
		return errors.New("at least one modulePaths pattern is required")
	}

	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(c.PublicURL, "/")))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("publicUrl %q escapes the output path", c.PublicURL)
	}

	return nil
}

// PublicExportPath is the directory inside OutputPath that receives PublicPath.
func (c ExportConfig) PublicExportPath() string {
	return filepath.Join(c.OutputPath, filepath.FromSlash(strings.TrimPrefix(c.PublicURL, "/")))
}

func absJoin(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
