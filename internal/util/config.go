// Package util provides common utilities for devwatch.
package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds process-level configuration. Runtime-adjustable settings
// (poll interval, theme, export-on-close) live in the registry's settings
// table instead, so a running daemon picks up changes without a restart.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Upper bound on concurrent probes within one cycle.
	ProbeConcurrency int `mapstructure:"probe_concurrency"`

	// Well-known port checked opportunistically for a remote-access service.
	AuxPort int `mapstructure:"aux_port"`

	// Explicit viewer executable; discovered on PATH when empty.
	ViewerPath string `mapstructure:"viewer_path"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".devwatch")

	return &Config{
		DataDir:  dataDir,
		LogLevel: "info",
		LogFile:  filepath.Join(dataDir, "devwatch.log"),

		ProbeConcurrency: 16,

		AuxPort: 5900,
	}
}

// LoadConfig loads configuration from file and environment.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(cfg.DataDir)
	viper.AddConfigPath(".")

	viper.SetDefault("data_dir", cfg.DataDir)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("log_file", cfg.LogFile)
	viper.SetDefault("probe_concurrency", cfg.ProbeConcurrency)
	viper.SetDefault("aux_port", cfg.AuxPort)
	viper.SetDefault("viewer_path", cfg.ViewerPath)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.ProbeConcurrency <= 0 {
		cfg.ProbeConcurrency = 16
	}
	if cfg.AuxPort < 1 || cfg.AuxPort > 65535 {
		cfg.AuxPort = 5900
	}

	return cfg, nil
}

// EnsureDir ensures a directory exists.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
