package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolverPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Tasks")
	r := New(dir)

	if got := r.ListPath("groceries"); got != filepath.Join(dir, "groceries.json") {
		t.Fatalf("unexpected list path: %s", got)
	}
	if got := r.SettingsPath(); got != filepath.Join(dir, "settings.json") {
		t.Fatalf("unexpected settings path: %s", got)
	}
	if got := r.Resolve("img"); got != filepath.Join(dir, "img") {
		t.Fatalf("unexpected resolve: %s", got)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("resolver must not create the data dir, stat err=%v", err)
	}
}

func TestDefaultDirUsesXDGDataHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("LOCALAPPDATA takes precedence on windows")
	}
	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", root)

	if got := DefaultDir(); got != filepath.Join(root, AppDir) {
		t.Fatalf("unexpected default dir: %s", got)
	}
}

func TestEnsureExistsCreatesParentsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "list.json")

	if err := EnsureExists(path); err != nil {
		t.Fatalf("ensure exists: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestEnsureExistsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	if err := os.WriteFile(path, []byte(`{"tasks":[]}`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := EnsureExists(path); err != nil {
			t.Fatalf("ensure exists #%d: %v", i, err)
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != `{"tasks":[]}` {
		t.Fatalf("existing content changed: %q", raw)
	}
}
