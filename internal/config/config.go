// Package config loads service configuration from an optional TOML
// file, the environment, and flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds application configuration.
type Config struct {
	Port                int    `toml:"port"`
	StoreBackend        string `toml:"store_backend"`
	StorePath           string `toml:"store_path"`
	StaticDir           string `toml:"static_dir"`
	UserAgent           string `toml:"user_agent"`
	MaxExcerptLen       int    `toml:"max_excerpt_len"`
	LogDevelopment      bool   `toml:"log_development"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
}

// FetchTimeout converts the configured fetch timeout into a Duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Store backends.
const (
	BackendLogfile = "logfile"
	BackendSQLite  = "sqlite"
)

// DefaultStorePath returns the default log file path using
// XDG_DATA_HOME.
func DefaultStorePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "jobsanalyzer", "jobs_database.txt")
}

func defaults() *Config {
	return &Config{
		Port:                8000,
		StoreBackend:        BackendLogfile,
		StorePath:           DefaultStorePath(),
		StaticDir:           "static",
		FetchTimeoutSeconds: 15,
		MaxExcerptLen:       8000,
		LogDevelopment:      false,
	}
}

// Load builds a Config: defaults, then the TOML file named by the
// -config flag or JOBSANALYZER_CONFIG (if any), then environment
// overrides.
func Load() (*Config, error) {
	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("JOBSANALYZER_CONFIG"), "TOML config file path")
	flag.Parse()

	return load(configPath)
}

func load(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets JOBSANALYZER_* variables override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("JOBSANALYZER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("JOBSANALYZER_STORE_BACKEND"); v != "" {
		cfg.StoreBackend = v
	}
	if v := os.Getenv("JOBSANALYZER_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("JOBSANALYZER_STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("JOBSANALYZER_LOG_DEV"); v != "" {
		cfg.LogDevelopment = v == "1" || v == "true"
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("port must be > 0")
	}
	if c.StoreBackend != BackendLogfile && c.StoreBackend != BackendSQLite {
		return fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be > 0")
	}
	if c.MaxExcerptLen <= 0 {
		return fmt.Errorf("max_excerpt_len must be > 0")
	}
	return nil
}
