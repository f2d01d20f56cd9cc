// Package config loads the optional .organic-growth.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// FileName is the configuration file looked up in the project root
	FileName = ".organic-growth"
	// EnvPrefix prefixes environment overrides, e.g. ORGANIC_GROWTH_SYNC_DEBOUNCE
	EnvPrefix = "ORGANIC_GROWTH"
)

// Config represents the organic-growth configuration
type Config struct {
	Sync   SyncConfig   `mapstructure:"sync"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`

	// File is the configuration file that was read, or "" when defaults
	// and environment were used alone.
	File string `mapstructure:"-"`
}

// SyncConfig represents context sync configuration
type SyncConfig struct {
	Source   string        `mapstructure:"source"`
	Target   string        `mapstructure:"target"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// OutputConfig represents terminal output configuration
type OutputConfig struct {
	NoColor bool `mapstructure:"no_color"`
}

// LogConfig represents diagnostic logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Load loads the configuration from .organic-growth.yaml in root, if present,
// with ORGANIC_GROWTH_* environment overrides on top.
func Load(root string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("sync.source", "docs/project-context.md")
	v.SetDefault("sync.target", "all")
	v.SetDefault("sync.debounce", "100ms")
	v.SetDefault("output.no_color", false)
	v.SetDefault("log.level", "warn")

	// Set config name and paths
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = v.ConfigFileUsed()

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindRoot walks up from start to the nearest directory holding a
// configuration file, a docs/project-context.md or a .git entry. When none
// is found start itself is returned.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	markers := []string{
		FileName + ".yaml",
		FileName + ".yml",
		filepath.Join("docs", "project-context.md"),
		".git",
	}

	dir := abs
	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return abs, nil
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	src := filepath.ToSlash(filepath.Clean(cfg.Sync.Source))
	if cfg.Sync.Source == "" || filepath.IsAbs(cfg.Sync.Source) || src == ".." || strings.HasPrefix(src, "../") {
		return fmt.Errorf("sync.source must be a path inside the project, got: %q", cfg.Sync.Source)
	}
	if cfg.Sync.Debounce <= 0 {
		return fmt.Errorf("sync.debounce must be positive, got: %s", cfg.Sync.Debounce)
	}

	level := strings.ToLower(cfg.Log.Level)
	for _, l := range validLevels {
		if level == l {
			cfg.Log.Level = level
			return nil
		}
	}
	return fmt.Errorf("log.level must be one of %s, got: %q", strings.Join(validLevels, ", "), cfg.Log.Level)
}
