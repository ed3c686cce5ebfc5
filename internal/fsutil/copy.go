package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrCopyIntoSelf indicates a copy destination is the source or nested inside it
var ErrCopyIntoSelf = errors.New("cannot copy a directory into itself")

// CopyDir copies the tree at src into dst, creating directories as needed and
// overwriting existing files. Copying stops at the first error. dst must not
// be src or lie inside it.
func CopyDir(fsys afero.Fs, src, dst string) error {
	if IsWithin(dst, src) {
		return fmt.Errorf("%w: %s to %s", ErrCopyIntoSelf, src, dst)
	}

	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return fsys.MkdirAll(target, 0o755)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return CopyFile(fsys, path, target, info.Mode().Perm())
	})
}

// CopyFile copies a single file, creating the parent directory of dst.
func CopyFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// IsWithin reports whether path is parent or nested below it. Both paths are
// cleaned first, so "/a/bc" is not within "/a/b".
func IsWithin(path, parent string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel))
}
