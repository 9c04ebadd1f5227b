// Package atomicfile provides the write-to-temp-then-rename primitive
// every on-disk store in this module uses so a concurrent reader never
// observes a partially written object, commit, or ref.
package atomicfile

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Write writes data to path via a uuid-named sibling temp file and an
// atomic rename into place, creating parent directories as needed.
func Write(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrapf(err, "writing temp file for %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "renaming temp file into %s", path)
	}
	return nil
}
