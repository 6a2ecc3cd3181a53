// Package paths maps logical store names to files under the per-user
// task data directory.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sandeepkv93/tasks/internal/fileio"
)

const (
	// AppDir is the directory created under the user data root.
	AppDir = "Tasks"

	// SettingsFile is the literal name of the settings store.
	SettingsFile = "settings.json"

	// ListExt is appended to a list name to form its file name.
	ListExt = ".json"

	lockDir    = ".locks"
	stagingDir = ".staging"
)

// Resolver builds absolute paths for list files and the settings file.
type Resolver struct {
	dir string
}

// New returns a Resolver rooted at dir. dir is used as-is; no directories
// are created until a writer asks for them.
func New(dir string) *Resolver {
	return &Resolver{dir: filepath.Clean(dir)}
}

// DefaultDir returns <user-data-root>/Tasks.
// The data root is %LOCALAPPDATA% on Windows, $XDG_DATA_HOME when set,
// otherwise $HOME/.local/share.
func DefaultDir() string {
	return filepath.Join(userDataRoot(), AppDir)
}

func userDataRoot() string {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return local
		}
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return "."
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(home, ".local", "share")
}

// Dir returns the data directory.
func (r *Resolver) Dir() string { return r.dir }

// Resolve returns <dir>/<store>. It never fails and creates nothing.
func (r *Resolver) Resolve(store string) string {
	return filepath.Join(r.dir, store)
}

// ListPath returns the file path backing the named list.
func (r *Resolver) ListPath(name string) string {
	return r.Resolve(name + ListExt)
}

// SettingsPath returns the settings file path.
func (r *Resolver) SettingsPath() string {
	return r.Resolve(SettingsFile)
}

// LockDir holds advisory lock files. It is a subdirectory so that list
// enumeration, which only reports regular files, never sees it.
func (r *Resolver) LockDir() string {
	return r.Resolve(lockDir)
}

// StagingDir holds temp files while a write is in flight.
func (r *Resolver) StagingDir() string {
	return r.Resolve(stagingDir)
}

// EnsureExists creates path's parent directories and an empty file at path
// when either is missing. Existing files are left untouched.
func EnsureExists(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create directory for %s: %w", fileio.ErrIO, path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("%w: create %s: %w", fileio.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", fileio.ErrIO, path, err)
	}
	return nil
}
