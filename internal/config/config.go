package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/utils"
)

// Config holds user settings read from the YAML settings file.
type Config struct {
	Timezone            string `yaml:"timezone"`
	DefaultDuration     int    `yaml:"default_duration"`
	DefaultWeeklyTarget int    `yaml:"default_weekly_target"`
	Offline             bool   `yaml:"offline"`
	Debug               bool   `yaml:"debug"`
	// LocalDir holds the offline queue, session identity and logs
	LocalDir string `yaml:"local_dir"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	cfg := Config{}
	ApplyDefaults(&cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.DefaultDuration == 0 {
		cfg.DefaultDuration = constants.DefaultDuration
	}
	if cfg.DefaultWeeklyTarget == 0 {
		cfg.DefaultWeeklyTarget = constants.DefaultWeeklyTarget
	}
	if cfg.LocalDir == "" {
		cfg.LocalDir = DefaultDir()
	}
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.DefaultDuration <= 0 {
		return fmt.Errorf("default_duration must be positive, got %d", c.DefaultDuration)
	}
	if c.DefaultWeeklyTarget < constants.MinWeeklyTarget || c.DefaultWeeklyTarget > constants.MaxWeeklyTarget {
		return fmt.Errorf("default_weekly_target must be between %d and %d, got %d",
			constants.MinWeeklyTarget, constants.MaxWeeklyTarget, c.DefaultWeeklyTarget)
	}
	return nil
}

// Load reads the settings file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	path = ExpandHome(path)
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read settings: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	cfg.LocalDir = ExpandHome(cfg.LocalDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg Config) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// DefaultDir is ~/.config/daystreak, falling back to the working directory.
func DefaultDir() string {
	return ExpandHome(filepath.Dir(constants.DefaultConfigPath))
}

// DefaultPath is the settings file inside DefaultDir.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), constants.DefaultSettingsFile)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
