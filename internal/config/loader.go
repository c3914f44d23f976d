package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileName is the default config file name searched for by Load when
// no explicit path is given.
const ConfigFileName = "updatewing.json"

// LoadFromFile loads configuration from a specific JSON file, applying
// defaults for anything the file doesn't set and validating the result.
func LoadFromFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", configPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads configuration from defaults, the JSON file named by
// UPDATEWING_CONFIG (when set), and environment variables, with viper
// bridging UPDATEWING_* environment variables onto the same keys a config
// file would use.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	setupViper()

	if configPath := viper.GetString("config"); configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("json")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", configPath, err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// setupViper configures viper's environment-variable handling: every key
// below can be overridden with UPDATEWING_<KEY>, dashes and dots replaced
// by underscores (UPDATEWING_CHECK_INTERVAL, UPDATEWING_LOG_LEVEL, ...).
func setupViper() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault("config", "")
	viper.SetDefault("feed_url", "")
	viper.SetDefault("updates_path", "")
	viper.SetDefault("current_version", "")
	viper.SetDefault("early_access", false)
	viper.SetDefault("early_access_category", DefaultEarlyAccessCategory)
	viper.SetDefault("check_interval", "1h")
	viper.SetDefault("http_timeout", "30s")
	viper.SetDefault("ledger_path", "")
	viper.SetDefault("disable_auto_update", false)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.enable_console", true)
	viper.SetDefault("log.enable_file", false)
	viper.SetDefault("log.filename", "updatewing.log")
	viper.SetDefault("log.max_size", 10)
	viper.SetDefault("log.max_backups", 5)
	viper.SetDefault("log.max_age", 30)
	viper.SetDefault("log.compress", true)

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.listen", "127.0.0.1:9090")
}
