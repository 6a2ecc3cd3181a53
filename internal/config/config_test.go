package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	cfg := DefaultRuntimeConfig()
	if cfg.DefaultList != "tasklist" || cfg.QueueBuffer != 64 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DataDir != filepath.Join("/tmp/xdg", "Tasks") {
		t.Fatalf("unexpected data dir: %q", cfg.DataDir)
	}
	if cfg.LockTimeout != 5*time.Second || cfg.MarkdownStyle != "dark" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKS_DATA_DIR", "/data/tasks")
	t.Setenv("TASKS_DEFAULT_LIST", "inbox")
	t.Setenv("TASKS_LOG_FILE", "/var/log/tasks.log")
	t.Setenv("TASKS_LOG_LEVEL", "DEBUG")
	t.Setenv("TASKS_LOCK_TIMEOUT_MS", "250")
	t.Setenv("TASKS_QUEUE_BUFFER", "128")
	t.Setenv("TASKS_MARKDOWN_STYLE", "light")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DataDir != "/data/tasks" || cfg.DefaultList != "inbox" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.LogFile != "/var/log/tasks.log" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg)
	}
	if cfg.LockTimeout != 250*time.Millisecond || cfg.QueueBuffer != 128 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.MarkdownStyle != "light" {
		t.Fatalf("unexpected markdown style: %q", cfg.MarkdownStyle)
	}
}

func TestRuntimeConfigFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("TASKS_LOCK_TIMEOUT_MS", "soon")
	t.Setenv("TASKS_QUEUE_BUFFER", "-3")

	base := DefaultRuntimeConfig()
	cfg := RuntimeConfigFromEnv(base)
	if cfg.LockTimeout != base.LockTimeout || cfg.QueueBuffer != base.QueueBuffer {
		t.Fatalf("bad values should be ignored: %+v", cfg)
	}
}

func TestLoadFileOverlaysBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "data_dir: /srv/tasks\ndefault_list: work\nlock_timeout: 2s\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	base := DefaultRuntimeConfig()
	cfg, err := LoadFile(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/srv/tasks" || cfg.DefaultList != "work" || cfg.LockTimeout != 2*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.QueueBuffer != base.QueueBuffer {
		t.Fatalf("unset keys should keep base values: %+v", cfg)
	}
}

func TestLoadFileMissingKeepsBase(t *testing.T) {
	base := DefaultRuntimeConfig()
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), base)
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg != base {
		t.Fatalf("missing file changed config: %+v", cfg)
	}
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"reserved list": "default_list: settings\n",
		"zero buffer":   "queue_buffer: 0\n",
		"bad level":     "log_level: chatty\n",
		"not yaml":      "data_dir: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := LoadFile(path, DefaultRuntimeConfig()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadAppliesEnvAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_list: work\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKS_DEFAULT_LIST", "home")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultList != "home" {
		t.Fatalf("env should win over file, got %q", cfg.DefaultList)
	}
}

func TestNewLoggerWritesJSONToFile(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "tasks.log")
	cfg.LogLevel = "warn"

	logger, closeFn, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "list", "work")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"list":"work"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestNewLoggerWithoutFileDiscards(t *testing.T) {
	logger, closeFn, err := NewLogger(DefaultRuntimeConfig())
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("nowhere")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
