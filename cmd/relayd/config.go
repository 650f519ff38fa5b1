// Package main provides the AlertRelay daemon CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	AlarmStore AlarmStoreConfig `yaml:"alarm_store"`
	Poller     PollerConfig     `yaml:"poller"`
	SMS        SMSConfig        `yaml:"sms"`
	Email      EmailConfig      `yaml:"email"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	API        APIConfig        `yaml:"api"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Verbose    bool             `yaml:"-"` // set via CLI flag
}

// DatabaseConfig contains routing configuration store settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // sqlite file path (default: data/alertrelay.db)
}

// AlarmStoreConfig contains the external MSSQL alarm store settings. The
// password comes from the ALERTRELAY_DB_PASSWORD environment variable, not
// from this file.
type AlarmStoreConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`     // default: 1433
	User        string `yaml:"user"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"sslmode"` // "disable" turns encryption off
	NewView     string `yaml:"new_view"`
	ChangedView string `yaml:"changed_view"`
	ClosedView  string `yaml:"closed_view"`
}

// PollerConfig contains poll loop settings.
type PollerConfig struct {
	Interval             time.Duration `yaml:"interval"`               // default: 1s
	MaxConsecutiveErrors int           `yaml:"max_consecutive_errors"` // default: 5
}

// SMSConfig contains SMS gateway settings.
type SMSConfig struct {
	Enabled      bool          `yaml:"enabled"`
	GatewayURL   string        `yaml:"gateway_url"`
	SourceSystem string        `yaml:"source_system"`
	Timeout      time.Duration `yaml:"timeout"` // default: 30s
}

// EmailConfig contains SMTP settings. The password comes from the
// ALERTRELAY_SMTP_PASSWORD environment variable.
type EmailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // default: 587
	Username string `yaml:"username"`
	From     string `yaml:"from"`
}

// RateLimitConfig contains notification rate limit settings.
type RateLimitConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxPerWindow int           `yaml:"max_per_window"` // default: 60
	Window       time.Duration `yaml:"window"`         // default: 1m
}

// APIConfig contains admin API settings. The JWT secret comes from the
// ALERTRELAY_JWT_SECRET environment variable.
type APIConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`   // default: :8080
	TokenTTL time.Duration `yaml:"token_ttl"` // default: 24h
}

// MetricsConfig contains the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"` // default: :9090
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = "data/alertrelay.db"
	}
	if c.AlarmStore.Port == 0 {
		c.AlarmStore.Port = 1433
	}
	if c.Poller.Interval == 0 {
		c.Poller.Interval = time.Second
	}
	if c.Poller.MaxConsecutiveErrors == 0 {
		c.Poller.MaxConsecutiveErrors = 5
	}
	if c.SMS.Timeout == 0 {
		c.SMS.Timeout = 30 * time.Second
	}
	if c.Email.Port == 0 {
		c.Email.Port = 587
	}
	if c.RateLimit.MaxPerWindow == 0 {
		c.RateLimit.MaxPerWindow = 60
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.API.Address == "" {
		c.API.Address = ":8080"
	}
	if c.API.TokenTTL == 0 {
		c.API.TokenTTL = 24 * time.Hour
	}
	if c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.AlarmStore.Host == "" {
		return fmt.Errorf("alarm_store.host is required")
	}
	if c.AlarmStore.Database == "" {
		return fmt.Errorf("alarm_store.database is required")
	}
	if c.Poller.Interval < 0 {
		return fmt.Errorf("poller.interval must not be negative")
	}
	if c.SMS.Enabled && c.SMS.GatewayURL == "" {
		return fmt.Errorf("sms.gateway_url is required when SMS is enabled")
	}
	if c.Email.Enabled {
		if c.Email.Host == "" {
			return fmt.Errorf("email.host is required when email is enabled")
		}
		if c.Email.From == "" {
			return fmt.Errorf("email.from is required when email is enabled")
		}
	}
	return nil
}
