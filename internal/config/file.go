package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/tasks/internal/model"
)

// ConfigFileName is looked up under the user config directory.
const ConfigFileName = "config.yaml"

// DefaultFilePath returns <user-config-dir>/tasks/config.yaml, or "" when
// the config directory cannot be determined.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tasks", ConfigFileName)
}

// LoadFile overlays the YAML document at path onto base. A missing file
// returns base unchanged.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("reading config file: %w", err)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load resolves defaults, then the file at path, then the environment.
func Load(path string) (RuntimeConfig, error) {
	cfg, err := LoadFile(path, DefaultRuntimeConfig())
	if err != nil {
		return cfg, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	return cfg, cfg.Validate()
}

func (c RuntimeConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if err := model.ValidateListName(c.DefaultList); err != nil {
		return fmt.Errorf("default_list: %w", err)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive")
	}
	if c.QueueBuffer < 1 {
		return fmt.Errorf("queue_buffer must be at least 1")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
