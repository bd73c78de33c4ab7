package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// TempFilePrefix names the staging files created next to a library while it
// is being replaced. Watchers ignore them because they never match a target.
const TempFilePrefix = "uwuw-tmp-"

// defaultLibraryPerm applies to libraries that did not exist before.
const defaultLibraryPerm os.FileMode = 0644

// replaceFile stages a new version of target through fill and renames it
// into place. fill receives the staging path and must leave a complete file
// there. The staging file keeps target's extension and, when target already
// exists, its permissions.
func replaceFile(target string, fill func(staging string) error) (err error) {
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*"+filepath.Ext(target))
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", target, err)
	}
	staging := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("failed to stage %s: %w", target, err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rmErr := os.Remove(staging); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, fmt.Errorf("failed to remove %s: %w", staging, rmErr))
		}
	}()

	if err = fill(staging); err != nil {
		return err
	}
	if err = os.Chmod(staging, libraryPerm(target)); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", staging, err)
	}
	if err = os.Rename(staging, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return syncDir(dir)
}

// writeStaged writes an encoded library into an existing staging file.
func writeStaged(staging string, data []byte) error {
	f, err := os.OpenFile(staging, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", staging, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync %s: %w", staging, err)
	}
	return f.Close()
}

func libraryPerm(target string) os.FileMode {
	if info, err := os.Stat(target); err == nil {
		return info.Mode().Perm()
	}
	return defaultLibraryPerm
}

// syncDir flushes the rename itself. Windows cannot fsync directories.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", dir, err)
	}
	return nil
}
