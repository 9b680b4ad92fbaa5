package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	config := GetDefaults()

	viper.SetConfigName("dataveil")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/dataveil/")
	viper.AddConfigPath("$HOME/.dataveil/")

	// Environment variable overrides
	viper.SetEnvPrefix("DATAVEIL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Use specific config file if provided
	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error - we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if len(config.Engine.Entities) == 0 {
		return fmt.Errorf("engine.entities must name at least one entity type")
	}

	if config.Engine.MinScore < 0 || config.Engine.MinScore > 1 {
		return fmt.Errorf("invalid engine.min_score: %v (must be between 0 and 1)", config.Engine.MinScore)
	}

	for entity, op := range config.Anonymize.Operators {
		if op.Type != "hash" && op.Type != "replace" {
			return fmt.Errorf("invalid operator type for %s: %s (must be hash or replace)", entity, op.Type)
		}
	}

	if config.Normalize.NationalID.Length < 0 {
		return fmt.Errorf("invalid normalize.national_id.length: %d", config.Normalize.NationalID.Length)
	}

	if config.Normalize.NationalID.GroupSize <= 0 && config.Normalize.NationalID.Length > 0 {
		return fmt.Errorf("invalid normalize.national_id.group_size: %d", config.Normalize.NationalID.GroupSize)
	}

	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	return nil
}

// Watch starts watching the configuration file for changes
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := GetDefaults()
		if err := viper.Unmarshal(newConfig); err != nil {
			// Keep running on a broken edit
			return
		}

		if err := validateConfig(newConfig); err != nil {
			return
		}

		callback(newConfig)
	})

	return nil
}
