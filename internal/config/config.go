package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Digital-Shane/rom-tidy/internal/dedupe"
)

// Config holds the persistent user preferences. Command line flags override
// every field.
type Config struct {
	// DefaultAction is the tie-break action used when --action is not given.
	// Empty means ask with --log and keep all otherwise.
	DefaultAction    string `json:"default_action"`
	EnableLogging    bool   `json:"enable_logging"`
	LogRetentionDays int    `json:"log_retention_days"`
	RemoveMetaFiles  bool   `json:"remove_meta_files"`
	PruneEmptyDirs   bool   `json:"prune_empty_dirs"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultAction:    "",
		EnableLogging:    true,
		LogRetentionDays: 30,
		RemoveMetaFiles:  false,
		PruneEmptyDirs:   false,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".rom-tidy", "config.json"), nil
}

// Load reads the configuration from disk. A missing file yields the defaults
// and fields absent from the file keep their default values.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.LogRetentionDays <= 0 {
		cfg.LogRetentionDays = DefaultConfig().LogRetentionDays
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks fields that cannot be expressed by their JSON type alone.
func (cfg *Config) Validate() error {
	if cfg.DefaultAction != "" {
		if _, err := dedupe.ParseAction(cfg.DefaultAction); err != nil {
			return fmt.Errorf("default_action: %w", err)
		}
	}
	if cfg.LogRetentionDays < 0 {
		return fmt.Errorf("log_retention_days must not be negative")
	}
	return nil
}

// Action resolves the configured default action. ok is false when none is set.
func (cfg *Config) Action() (action dedupe.Action, ok bool, err error) {
	if cfg.DefaultAction == "" {
		return 0, false, nil
	}
	action, err = dedupe.ParseAction(cfg.DefaultAction)
	if err != nil {
		return 0, false, err
	}
	return action, true, nil
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"default_action",
	"enable_logging",
	"log_retention_days",
	"remove_meta_files",
	"prune_empty_dirs",
}

// KeyValue is one displayed setting.
type KeyValue struct {
	Key   string
	Value string
}

// Values returns every setting as display strings, in Keys order.
func (cfg *Config) Values() []KeyValue {
	action := cfg.DefaultAction
	if action == "" {
		action = "(auto)"
	}
	return []KeyValue{
		{"default_action", action},
		{"enable_logging", strconv.FormatBool(cfg.EnableLogging)},
		{"log_retention_days", strconv.Itoa(cfg.LogRetentionDays)},
		{"remove_meta_files", strconv.FormatBool(cfg.RemoveMetaFiles)},
		{"prune_empty_dirs", strconv.FormatBool(cfg.PruneEmptyDirs)},
	}
}

// Set parses value into the field named by key. The config is left unchanged
// when an error is returned.
func (cfg *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "default_action":
		switch strings.ToLower(value) {
		case "", "auto":
			cfg.DefaultAction = ""
			return nil
		}
		a, err := dedupe.ParseAction(value)
		if err != nil {
			return err
		}
		cfg.DefaultAction = a.String()
	case "enable_logging":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("enable_logging: %q is not a boolean", value)
		}
		cfg.EnableLogging = b
	case "log_retention_days":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("log_retention_days: %q is not a positive number", value)
		}
		cfg.LogRetentionDays = n
	case "remove_meta_files":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("remove_meta_files: %q is not a boolean", value)
		}
		cfg.RemoveMetaFiles = b
	case "prune_empty_dirs":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("prune_empty_dirs: %q is not a boolean", value)
		}
		cfg.PruneEmptyDirs = b
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}
