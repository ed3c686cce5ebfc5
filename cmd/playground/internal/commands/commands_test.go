package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/playground/internal/bundler"
	"github.com/wolfeidau/playground/internal/export"

	_ "github.com/wolfeidau/playground/internal/bundler/esbuild"
)

func TestResultError(t *testing.T) {
	buildErr := errors.New("syntax error")

	require.NoError(t, resultError(export.Result{}))
	require.NoError(t, resultError(export.Result{Reason: export.ReasonMissingDependency, Err: bundler.ErrMissingDependency}))

	err := resultError(export.Result{Reason: export.ReasonBuild, Err: buildErr})
	require.ErrorIs(t, err, buildErr)
	require.EqualError(t, err, "export failed (build): syntax error")
}

func TestBundlersCmd(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, (&BundlersCmd{out: buf}).Run(&Globals{}))
	require.Contains(t, buf.String(), "esbuild\n")
}

func TestExportCmd_MissingBundler(t *testing.T) {
	dir := t.TempDir()
	cmd := &ExportCmd{
		Config:  filepath.Join(dir, "playground.config.yaml"),
		Output:  filepath.Join(dir, "out"),
		Bundler: "webpack",
	}

	require.NoError(t, cmd.Run(context.Background(), &Globals{}))

	_, err := os.Stat(filepath.Join(dir, "out"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportCmd_NoModules(t *testing.T) {
	dir := t.TempDir()
	cmd := &ExportCmd{Config: filepath.Join(dir, "playground.config.yaml")}

	err := cmd.Run(context.Background(), &Globals{})
	require.ErrorIs(t, err, bundler.ErrNoModules)
}
