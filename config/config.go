// Package config provides configuration management for the window manager
// preferences tool. It handles loading, saving, and validating settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yllada/wm-properties/common"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// SystemDir holds the descriptors installed with the system.
	SystemDir string `yaml:"system_dir"`
	// UserDir holds the descriptors the user created.
	UserDir string `yaml:"user_dir"`
	// DefaultFile is the legacy file naming the system default window manager.
	DefaultFile string `yaml:"default_file"`
	// PollInterval is the delay between restart checks.
	PollInterval time.Duration `yaml:"poll_interval"`
	// PollAttempts bounds each restart phase.
	PollAttempts int `yaml:"poll_attempts"`
	// FallbackCommand is launched when no window manager is selected.
	FallbackCommand string `yaml:"fallback_command"`
	// ShowNotifications enables desktop notifications for switch results.
	ShowNotifications bool `yaml:"show_notifications"`
	// SaveSessionCommand is run when the session manager cannot be reached.
	SaveSessionCommand string `yaml:"save_session_command"`
	// DatabasePath is the settings database. Empty means the config directory.
	DatabasePath string `yaml:"database_path"`
	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SystemDir:          common.SystemDescriptorDir,
		UserDir:            common.UserDescriptorDir(),
		DefaultFile:        common.LegacyDefaultFile,
		PollInterval:       common.PollInterval,
		PollAttempts:       common.PollAttempts,
		FallbackCommand:    common.FallbackCommand,
		ShowNotifications:  true,
		SaveSessionCommand: common.SaveSessionCommand,
		LogLevel:           "info",
	}
}

// Load loads the configuration from the default config file.
// If the file doesn't exist, it creates one with default values.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path, creating it with
// defaults when it does not exist yet.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.SaveTo(configPath); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: error opening configuration: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // reject unknown fields

	config := *DefaultConfig()
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("%w: error parsing configuration: %v", common.ErrConfigLoad, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid configuration: %v", common.ErrConfigLoad, err)
	}

	return &config, nil
}

// validate fills blank values with defaults and rejects impossible ones.
func (c *Config) validate() error {
	def := DefaultConfig()
	if c.SystemDir == "" {
		c.SystemDir = def.SystemDir
	}
	if c.UserDir == "" {
		c.UserDir = def.UserDir
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.PollAttempts < 0 {
		return fmt.Errorf("poll_attempts must not be negative, got %d", c.PollAttempts)
	}
	if c.PollAttempts == 0 {
		c.PollAttempts = def.PollAttempts
	}
	if c.FallbackCommand == "" {
		c.FallbackCommand = def.FallbackCommand
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = def.LogLevel
	}
	return nil
}

// Save saves the configuration to the default config file.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the configuration to configPath.
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("%w: error creating config directory: %v", common.ErrConfigSave, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: error serializing configuration: %v", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("%w: error saving configuration: %v", common.ErrConfigSave, err)
	}

	return nil
}

// SettingsPath returns the settings database location.
func (c *Config) SettingsPath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.SettingsFileName), nil
}

func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", common.ConfigDirName, common.ConfigFileName), nil
}
