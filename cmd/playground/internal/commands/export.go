package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/playground/internal/export"
	"github.com/wolfeidau/playground/internal/logger"
)

type ExportCmd struct {
	Config      string `help:"path to the project config file" default:"${config_file}" env:"PLAYGROUND_CONFIG" type:"path"`
	Output      string `help:"output directory, overrides outputPath from the config file" env:"PLAYGROUND_OUTPUT" type:"path"`
	Bundler     string `help:"bundler to build with, overrides bundler from the config file" env:"PLAYGROUND_BUNDLER"`
	Precompress bool   `help:"write gzip compressed copies of text assets" env:"PLAYGROUND_PRECOMPRESS"`
}

func (cmd *ExportCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx = log.WithContext(ctx)

	log.Info().Str("version", globals.Version).Str("config", cmd.Config).Msg("Starting export")

	exporter := export.New()
	exporter.OutputPath = cmd.Output
	exporter.Bundler = cmd.Bundler
	exporter.Precompress = cmd.Precompress

	return resultError(exporter.Run(ctx, cmd.Config))
}

// resultError maps an export result to the command's exit status. A missing
// bundler has already been reported as a warning and exits cleanly.
func resultError(res export.Result) error {
	switch res.Reason {
	case export.ReasonNone, export.ReasonMissingDependency:
		return nil
	default:
		return fmt.Errorf("export failed (%s): %w", res.Reason, res.Err)
	}
}
