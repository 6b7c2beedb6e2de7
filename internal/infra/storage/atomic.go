package storage

import (
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
)

// renameFile is swapped in tests to simulate a crash before the replace.
var renameFile = os.Rename

// writeFileAtomic replaces path with data. Readers see either the previous
// file or the complete new one: data goes to a temp file in the same
// directory, is synced, then renamed over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return crerr.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return crerr.Wrap(err, "chmod temp file")
	}
	if err := renameFile(tmpName, path); err != nil {
		return crerr.Wrapf(err, "replace %s", path)
	}

	// best effort: persist the rename itself
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
