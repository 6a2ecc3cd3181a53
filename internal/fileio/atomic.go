package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteAtomic replaces path with data. The payload is written to a uniquely
// named file under stagingDir and renamed over path, so a failed write never
// leaves path truncated. stagingDir must live on the same filesystem as path.
func WriteAtomic(path, stagingDir string, data []byte) error {
	if err := os.MkdirAll(stagingDir, dirPerm); err != nil {
		return fmt.Errorf("%w: create staging dir: %w", ErrIO, err)
	}
	tmp := filepath.Join(stagingDir, filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrIO, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: sync %s: %w", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %w", ErrIO, path, err)
	}
	return nil
}
