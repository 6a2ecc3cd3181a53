// Package config resolves runtime settings from defaults, an optional YAML
// file and TASKS_* environment variables, in that order.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/tasks/internal/fileio"
	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/paths"
)

type RuntimeConfig struct {
	DataDir       string        `yaml:"data_dir"`
	DefaultList   string        `yaml:"default_list"`
	LogFile       string        `yaml:"log_file"`
	LogLevel      string        `yaml:"log_level"`
	LockTimeout   time.Duration `yaml:"lock_timeout"`
	QueueBuffer   int           `yaml:"queue_buffer"`
	MarkdownStyle string        `yaml:"markdown_style"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataDir:       paths.DefaultDir(),
		DefaultList:   model.DefaultListName,
		LogLevel:      "info",
		LockTimeout:   fileio.DefaultLockTimeout,
		QueueBuffer:   64,
		MarkdownStyle: "dark",
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKS_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("TASKS_DEFAULT_LIST"); ok {
		cfg.DefaultList = v
	}
	if v, ok := getEnvString("TASKS_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TASKS_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvInt("TASKS_LOCK_TIMEOUT_MS"); ok && v > 0 {
		cfg.LockTimeout = time.Duration(v) * time.Millisecond
	}
	if v, ok := getEnvInt("TASKS_QUEUE_BUFFER"); ok && v > 0 {
		cfg.QueueBuffer = v
	}
	if v, ok := getEnvString("TASKS_MARKDOWN_STYLE"); ok {
		cfg.MarkdownStyle = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
