// Package config loads updatewing's runtime configuration. Load layers
// built-in defaults, an optional JSON file, and UPDATEWING_* environment
// variables, each overriding the one before; LoadFromFile applies one JSON
// file over the built-in defaults and does not read the environment.
package config

import (
	"fmt"
	"time"

	"github.com/northlane-software/updatewing/internal/release"
)

const (
	// EnvPrefix is the prefix viper strips from UPDATEWING_* environment
	// variables when binding them onto config keys.
	EnvPrefix = "UPDATEWING"

	// DefaultEarlyAccessCategory is the feed category name treated as the
	// early-access channel when Config.EarlyAccessCategory is unset.
	DefaultEarlyAccessCategory = "EarlyAccess"
)

// LogConfig controls where and how the application logs.
type LogConfig struct {
	Level         string `mapstructure:"level" json:"level"`
	EnableFile    bool   `mapstructure:"enable_file" json:"enable_file"`
	EnableConsole bool   `mapstructure:"enable_console" json:"enable_console"`
	LogDir        string `mapstructure:"log_dir" json:"log_dir"`
	Filename      string `mapstructure:"filename" json:"filename"`
	MaxSize       int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups    int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge        int    `mapstructure:"max_age" json:"max_age"`
	Compress      bool   `mapstructure:"compress" json:"compress"`
	JSONFormat    bool   `mapstructure:"json_format" json:"json_format"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Listen  string `mapstructure:"listen" json:"listen"`
}

// Config is updatewing's full runtime configuration.
type Config struct {
	FeedURL             string        `mapstructure:"feed_url" json:"feed_url"`
	UpdatesPath         string        `mapstructure:"updates_path" json:"updates_path"`
	CurrentVersion      string        `mapstructure:"current_version" json:"current_version"`
	EarlyAccess         bool          `mapstructure:"early_access" json:"early_access"`
	EarlyAccessCategory string        `mapstructure:"early_access_category" json:"early_access_category"`
	CheckInterval       time.Duration `mapstructure:"check_interval" json:"check_interval"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout" json:"http_timeout"`
	LedgerPath          string        `mapstructure:"ledger_path" json:"ledger_path"`
	DisableAutoUpdate   bool          `mapstructure:"disable_auto_update" json:"disable_auto_update"`

	Log     LogConfig     `mapstructure:"log" json:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics"`
}

// DefaultConfig returns a Config populated with the same defaults setupViper
// registers, so callers constructing a Config by hand (tests, LoadFromFile
// with no file) get consistent behavior.
func DefaultConfig() *Config {
	return &Config{
		EarlyAccessCategory: DefaultEarlyAccessCategory,
		CheckInterval:       1 * time.Hour,
		HTTPTimeout:         30 * time.Second,
		Log: LogConfig{
			Level:         "info",
			EnableConsole: true,
			Filename:      "updatewing.log",
			MaxSize:       10,
			MaxBackups:    5,
			MaxAge:        30,
			Compress:      true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9090",
		},
	}
}

// Validate checks Config for values the rest of the program assumes hold.
func (c *Config) Validate() error {
	if c.FeedURL == "" {
		return fmt.Errorf("config: feed_url is required")
	}
	if c.UpdatesPath == "" {
		return fmt.Errorf("config: updates_path is required")
	}
	if c.CurrentVersion == "" {
		return fmt.Errorf("config: current_version is required")
	}
	if _, err := release.ParseVersion(c.CurrentVersion); err != nil {
		return fmt.Errorf("config: current_version: %w", err)
	}
	if c.EarlyAccessCategory == "" {
		return fmt.Errorf("config: early_access_category must not be empty")
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("config: check_interval must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive")
	}
	return nil
}

// Version returns CurrentVersion parsed into a release.Version. Callers
// should only invoke this after Validate has succeeded.
func (c *Config) Version() (release.Version, error) {
	return release.ParseVersion(c.CurrentVersion)
}
