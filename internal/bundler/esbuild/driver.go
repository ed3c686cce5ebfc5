// Package esbuild registers the esbuild bundler driver.
package esbuild

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/playground/internal/bundler"
)

// Name is the name the driver registers under.
const Name = "esbuild"

func init() {
	bundler.Register(Driver{})
}

// Driver builds with esbuild, linked in as a library.
type Driver struct{}

func (Driver) Name() string { return Name }

// Build runs a single esbuild build. Cancelling ctx cancels the build.
func (d Driver) Build(ctx context.Context, opts bundler.Options) (bundler.Stats, error) {
	logger := zerolog.Ctx(ctx)
	started := time.Now()

	buildOpts, err := buildOptions(opts)
	if err != nil {
		return bundler.Stats{}, err
	}

	bctx, cerr := api.Context(buildOpts)
	if cerr != nil {
		return bundler.Stats{}, fmt.Errorf("%w: %s", bundler.ErrBuildFailed, formatMessages(cerr.Errors, api.ErrorMessage))
	}
	defer bctx.Dispose()

	stop := context.AfterFunc(ctx, bctx.Cancel)
	defer stop()

	logger.Info().Str("outfile", opts.Outfile).Msg("Building loader bundle")

	result := bctx.Rebuild()

	if err := ctx.Err(); err != nil {
		return bundler.Stats{}, err
	}

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			logger.Error().Str("error", msg.Text).Msg("Build error")
		}
		return bundler.Stats{}, fmt.Errorf("%w: %s", bundler.ErrBuildFailed, formatMessages(result.Errors, api.ErrorMessage))
	}

	metadata, err := bundler.ParseMetafile([]byte(result.Metafile))
	if err != nil {
		return bundler.Stats{}, fmt.Errorf("parse metafile: %w", err)
	}

	stats := bundler.Stats{
		Outputs:  metadata.Outputs,
		Duration: time.Since(started),
	}
	for _, msg := range result.Warnings {
		stats.Warnings = append(stats.Warnings, msg.Text)
	}

	for _, file := range result.OutputFiles {
		logger.Debug().Str("file", file.Path).Msg("Built file")
	}

	return stats, nil
}

func buildOptions(opts bundler.Options) (api.BuildOptions, error) {
	loaders, err := loaderMap(opts.Loader)
	if err != nil {
		return api.BuildOptions{}, err
	}

	target, err := parseTarget(opts.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}

	return api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   opts.EntrySource,
			ResolveDir: opts.ResolveDir,
			Sourcefile: opts.EntryName,
			Loader:     api.LoaderJS,
		},
		AbsWorkingDir:     opts.ResolveDir,
		Outfile:           opts.Outfile,
		Bundle:            true,
		Write:             true,
		Metafile:          true,
		Format:            api.FormatIIFE,
		Platform:          api.PlatformBrowser,
		GlobalName:        opts.GlobalName,
		Target:            target,
		JSX:               parseJSX(opts.JSX),
		Loader:            loaders,
		Define:            opts.Define,
		Inject:            opts.Inject,
		External:          opts.External,
		Alias:             opts.Alias,
		PublicPath:        opts.PublicPath,
		MinifyWhitespace:  opts.Minify,
		MinifyIdentifiers: opts.Minify,
		MinifySyntax:      opts.Minify,
		TreeShaking:       api.TreeShakingTrue,
		Sourcemap:         cond(opts.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		LogLevel:          api.LogLevelSilent,
		Plugins:           []api.Plugin{loaderHTMLPlugin(opts)},
	}, nil
}

// loaderHTMLPlugin writes the loader page once the bundle built cleanly.
func loaderHTMLPlugin(opts bundler.Options) api.Plugin {
	return api.Plugin{
		Name: "loader-html",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					return api.OnEndResult{}, nil
				}
				return api.OnEndResult{}, bundler.WriteLoaderHTML(opts)
			})
		},
	}
}

var loaders = map[string]api.Loader{
	"base64":  api.LoaderBase64,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
	"css":     api.LoaderCSS,
	"dataurl": api.LoaderDataURL,
	"empty":   api.LoaderEmpty,
	"file":    api.LoaderFile,
	"js":      api.LoaderJS,
	"json":    api.LoaderJSON,
	"jsx":     api.LoaderJSX,
	"text":    api.LoaderText,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
}

func loaderMap(in map[string]string) (map[string]api.Loader, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]api.Loader, len(in))
	for ext, name := range in {
		loader, ok := loaders[name]
		if !ok {
			return nil, fmt.Errorf("unknown loader %q for %q", name, ext)
		}
		out[ext] = loader
	}
	return out, nil
}

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

func parseTarget(name string) (api.Target, error) {
	if name == "" {
		return api.ES2020, nil
	}
	target, ok := targets[name]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unknown target %q", name)
	}
	return target, nil
}

func parseJSX(name string) api.JSX {
	switch name {
	case "transform":
		return api.JSXTransform
	case "preserve":
		return api.JSXPreserve
	default:
		return api.JSXAutomatic
	}
}

func formatMessages(msgs []api.Message, kind api.MessageKind) string {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{
		Kind:          kind,
		TerminalWidth: 120,
	})
	return strings.TrimSpace(strings.Join(formatted, "\n"))
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}

var _ bundler.Driver = Driver{}
