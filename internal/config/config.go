// Package config loads the server configuration from environment variables
// and an optional config file, with sane defaults for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries everything the API server needs to start.
type Config struct {
	Server struct {
		Port            string `mapstructure:"port"`
		ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
	} `mapstructure:"server"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	GCP struct {
		ProjectID    string `mapstructure:"project_id"`
		UploadBucket string `mapstructure:"upload_bucket"`
	} `mapstructure:"gcp"`
}

// Load reads configuration in layers: defaults, then an optional config.yaml,
// then EXPENSEWISE_* environment variables which win over everything.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/expensewise")

	v.SetEnvPrefix("EXPENSEWISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No file is fine, defaults and env vars cover everything.
	}

	// Common GCP env vars people already export.
	if err := v.BindEnv("gcp.project_id", "EXPENSEWISE_GCP_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"); err != nil {
		return nil, fmt.Errorf("bind project env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_seconds", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("gcp.project_id", "")
	v.SetDefault("gcp.upload_bucket", "")
}

func validate(cfg *Config) error {
	if cfg.GCP.ProjectID == "" {
		return fmt.Errorf("gcp.project_id is required (set EXPENSEWISE_GCP_PROJECT_ID)")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Server.ShutdownSeconds < 1 {
		return fmt.Errorf("server.shutdown_seconds must be positive, got %d", cfg.Server.ShutdownSeconds)
	}
	return nil
}
