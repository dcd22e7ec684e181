package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables for the two required settings. They keep the names the
// bot has always been deployed with; everything else uses the BOT_ prefix.
const (
	EnvToken        = "BOT_TOKEN"
	EnvSourceChatID = "SOURCE_CHANNEL_ID"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. the YAML file at path (optional; empty path means ./config.yaml)
// 3. Environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v, path); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// readConfigFile wires the environment and reads the config file if present.
func readConfigFile(v *viper.Viper, path string) error {
	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("telegram.token", EnvToken); err != nil {
		return err
	}
	if err := v.BindEnv("telegram.source_chat_id", EnvSourceChatID); err != nil {
		return err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Allow missing config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if path != "" && isNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for optional configuration parameters
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	// Declared so AutomaticEnv can see them during Unmarshal.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.source_chat_id", 0)

	v.SetDefault("registry.path", DefaultRegistryPath)
	v.SetDefault("registry.backup_dir", DefaultRegistryBackupDir)
	v.SetDefault("registry.backup_keep", DefaultRegistryBackupKeep)

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.retention", DefaultDatabaseRetention)

	v.SetDefault("forwarder.rate_per_second", DefaultForwarderRatePerSecond)
	v.SetDefault("forwarder.copy_timeout", DefaultForwarderCopyTimeout)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}
}
