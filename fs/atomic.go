package fs

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// WriteFile writes a file by letting write fill a temporary file next to
// name, then renaming it over name. A failed write leaves the existing
// file untouched.
func WriteFile(fsys billy.Filesystem, name string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(name)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}

	tmp, err := fsys.TempFile(dir, "."+filepath.Base(name)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := fsys.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("rename %q: %w", name, err)
	}
	return nil
}
