package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// CompressibleExts are the extensions Precompress writes gzip siblings for.
var CompressibleExts = []string{".css", ".html", ".js", ".json", ".map", ".svg", ".txt"}

// Precompress writes a .gz file next to every file under dir whose extension
// is in exts. It returns the paths written.
func Precompress(fsys afero.Fs, dir string, exts []string) ([]string, error) {
	var written []string

	err := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		if err := gzipFile(fsys, path, path+".gz", info.Mode().Perm()); err != nil {
			return err
		}
		written = append(written, path+".gz")
		return nil
	})

	return written, err
}

func gzipFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		_ = out.Close()
		return err
	}
	zw.Name = filepath.Base(src)

	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
