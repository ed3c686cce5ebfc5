package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/playground/cmd/playground/internal/commands"
	"github.com/wolfeidau/playground/internal/config"

	_ "github.com/wolfeidau/playground/internal/bundler/esbuild"
)

var (
	version = "dev"
	cli     struct {
		Export   commands.ExportCmd   `cmd:"" help:"Export the playground as a static site"`
		Bundlers commands.BundlersCmd `cmd:"" help:"List the available bundlers"`
		Debug    bool                 `help:"Enable debug mode." env:"PLAYGROUND_DEBUG"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
