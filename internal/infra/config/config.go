// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Queue   QueueConfig   `yaml:"queue"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// QueueConfig represents queue maintenance configuration.
type QueueConfig struct {
	TargetLength int `yaml:"target_length" default:"10" validate:"gte=1,lte=100"`
	HistoryLimit int `yaml:"history_limit" default:"10" validate:"gte=1,lte=100"`
}

// CatalogConfig represents the catalog source configuration.
type CatalogConfig struct {
	Type     string         `yaml:"type" validate:"required,oneof=http spotify"`
	Settings map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("CATALOG_URL"); v != "" {
		c.setCatalogSetting("url", v)
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.setCatalogSetting("client_id", v)
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.setCatalogSetting("client_secret", v)
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.setCatalogSetting("refresh_token", v)
	}
}

func (c *Config) setCatalogSetting(key, value string) {
	if c.Catalog.Settings == nil {
		c.Catalog.Settings = make(map[string]any)
	}
	c.Catalog.Settings[key] = value
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
