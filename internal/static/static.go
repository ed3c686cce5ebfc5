// Package static writes the fixed playground files into an export.
package static

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

//go:embed files
var embedded embed.FS

// Files holds the embedded playground shell, rooted at its files.
var Files = mustSub(embedded, "files")

// OptsToken is replaced in index.html with the JSON encoded PlaygroundOpts.
const OptsToken = "__PLAYGROUND_OPTS__"

const (
	FaviconFile = "favicon.ico"
	BundleFile  = "bundle.js"
	IndexFile   = "index.html"
)

// PlaygroundOpts configures the playground shell.
type PlaygroundOpts struct {
	LoaderURI string `json:"loaderUri"`
}

// DefaultOpts points the shell at the loader bundle of an export.
func DefaultOpts() PlaygroundOpts {
	return PlaygroundOpts{LoaderURI: "./loader/index.html"}
}

// Copier writes the playground files read from Source into Fs.
type Copier struct {
	Fs     afero.Fs
	Source fs.FS
	Opts   PlaygroundOpts
}

// NewCopier returns a copier writing the embedded files to fsys.
func NewCopier(fsys afero.Fs) *Copier {
	return &Copier{
		Fs:     fsys,
		Source: Files,
		Opts:   DefaultOpts(),
	}
}

// Export writes favicon.ico, bundle.js and index.html into outputPath. The
// first error aborts the export, files already written are left in place.
func (c *Copier) Export(outputPath string) error {
	if err := c.Fs.MkdirAll(outputPath, 0o755); err != nil {
		return err
	}

	for _, name := range []string{FaviconFile, BundleFile} {
		if err := c.copy(name, filepath.Join(outputPath, name)); err != nil {
			return err
		}
	}

	html, err := c.RenderIndex()
	if err != nil {
		return err
	}

	return afero.WriteFile(c.Fs, filepath.Join(outputPath, IndexFile), html, 0o644)
}

// RenderIndex returns index.html with the options token substituted.
func (c *Copier) RenderIndex() ([]byte, error) {
	tmpl, err := fs.ReadFile(c.Source, IndexFile)
	if err != nil {
		return nil, err
	}

	if !bytes.Contains(tmpl, []byte(OptsToken)) {
		return nil, fmt.Errorf("%s: missing %s placeholder", IndexFile, OptsToken)
	}

	opts, err := json.Marshal(c.Opts)
	if err != nil {
		return nil, err
	}

	return bytes.Replace(tmpl, []byte(OptsToken), opts, 1), nil
}

func (c *Copier) copy(name, dst string) error {
	data, err := fs.ReadFile(c.Source, name)
	if err != nil {
		return err
	}
	return afero.WriteFile(c.Fs, dst, data, 0o644)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
