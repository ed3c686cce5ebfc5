package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/wolfeidau/playground/internal/bundler"
	"github.com/wolfeidau/playground/internal/config"
	"github.com/wolfeidau/playground/internal/fsutil"
	"github.com/wolfeidau/playground/internal/static"
)

// Exporter runs the export pipeline.
type Exporter struct {
	Fs     afero.Fs
	Lookup func(name string) (bundler.Driver, error)
	Static *static.Copier

	// Overrides applied on top of the loaded project configuration
	OutputPath  string
	Bundler     string
	Precompress bool
}

// New returns an exporter working on the OS filesystem with the registered drivers.
func New() *Exporter {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs returns an exporter whose public copy, playground files and
// precompression all go through fsys. The bundler writes its own output.
func NewWithFs(fsys afero.Fs) *Exporter {
	return &Exporter{
		Fs:     fsys,
		Lookup: bundler.Lookup,
		Static: static.NewCopier(fsys),
	}
}

// Run exports the project configured at configPath. It doesn't return an
// error directly; failures, panics included, are reported through the Result
// and the context logger.
func (e *Exporter) Run(ctx context.Context, configPath string) Result {
	res := Result{ID: uuid.NewString()}

	logger := zerolog.Ctx(ctx).With().Str("export_id", res.ID).Logger()
	ctx = logger.WithContext(ctx)

	res = e.safeRun(ctx, configPath, res)

	if res.Reason == ReasonMissingDependency {
		return res
	}

	if res.Err != nil {
		logger.Error().Err(res.Err).Str("reason", res.Reason.String()).Msg("Export failed")
		return res
	}

	logger.Info().
		Str("output", res.OutputPath).
		Strs("files", res.Stats.Files()).
		Int("bytes", res.Stats.Bytes()).
		Dur("duration", res.Stats.Duration).
		Msg("Export complete")

	return res
}

func (e *Exporter) safeRun(ctx context.Context, configPath string, res Result) (out Result) {
	defer func() {
		if r := recover(); r != nil {
			out = failed(res, ReasonInternal, fmt.Errorf("export panicked: %v", r))
		}
	}()

	return e.run(ctx, configPath, res)
}

func (e *Exporter) run(ctx context.Context, configPath string, res Result) Result {
	logger := zerolog.Ctx(ctx)

	// resolve
	cfg, err := config.Load(configPath)
	if err != nil {
		return failed(res, ReasonConfig, err)
	}
	e.applyOverrides(&cfg)
	res.OutputPath = cfg.OutputPath

	driver, err := e.Lookup(cfg.Bundler)
	if err != nil {
		if errors.Is(err, bundler.ErrMissingDependency) {
			logger.Warn().Err(err).Strs("available", bundler.Drivers()).Msg("Bundler dependency missing")
			logger.Info().Msgf("Use one of the available bundlers, or build with the %q driver linked in", cfg.Bundler)
			return failed(res, ReasonMissingDependency, err)
		}
		return failed(res, ReasonConfig, err)
	}

	// configure
	userCfg, err := bundler.ResolveBundlerConfig(ctx, cfg.BundlerConfigPath, cfg.RootPath)
	if err != nil {
		return failed(res, ReasonConfig, err)
	}

	opts, err := bundler.Overlay{
		RootPath:  cfg.RootPath,
		OutputDir: cfg.OutputPath,
		Modules:   cfg.ModulePaths,
		Export:    true,
	}.Apply(userCfg)
	if err != nil {
		return failed(res, ReasonConfig, err)
	}

	// public files go first so the build output wins on conflicts
	if err := e.publish(ctx, cfg); err != nil {
		return failed(res, ReasonFilesystem, err)
	}

	// build
	stats, err := bundler.Start(ctx, driver, opts).Wait(ctx)
	if err != nil {
		return failed(res, ReasonBuild, err)
	}
	res.Stats = stats

	for _, warning := range stats.Warnings {
		logger.Warn().Str("warning", warning).Msg("Build warning")
	}

	// finalize
	if err := e.Static.Export(cfg.OutputPath); err != nil {
		return failed(res, ReasonFilesystem, err)
	}

	if cfg.Precompress {
		written, err := fsutil.Precompress(e.Fs, cfg.OutputPath, fsutil.CompressibleExts)
		if err != nil {
			return failed(res, ReasonFilesystem, err)
		}
		logger.Debug().Int("files", len(written)).Msg("Precompressed files")
	}

	return res
}

func (e *Exporter) publish(ctx context.Context, cfg config.ExportConfig) error {
	if cfg.PublicPath == "" {
		return nil
	}

	logger := zerolog.Ctx(ctx)

	if fsutil.IsWithin(cfg.OutputPath, cfg.PublicPath) {
		logger.Warn().
			Str("public_path", cfg.PublicPath).
			Str("output_path", cfg.OutputPath).
			Msg("Can't export public path because it contains the export path, skipping")
		return nil
	}

	dst := cfg.PublicExportPath()

	if fsutil.IsWithin(dst, cfg.PublicPath) {
		logger.Warn().
			Str("public_path", cfg.PublicPath).
			Str("public_export_path", dst).
			Msg("Can't export public path into itself, skipping")
		return nil
	}

	logger.Info().Str("from", cfg.PublicPath).Str("to", dst).Msg("Copying public files")

	return fsutil.CopyDir(e.Fs, cfg.PublicPath, dst)
}

func (e *Exporter) applyOverrides(cfg *config.ExportConfig) {
	if e.OutputPath != "" {
		if abs, err := filepath.Abs(e.OutputPath); err == nil {
			cfg.OutputPath = abs
		}
	}
	if e.Bundler != "" {
		cfg.Bundler = e.Bundler
	}
	if e.Precompress {
		cfg.Precompress = true
	}
}
