package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.AlarmStore.Host = "alarms.internal"
	cfg.AlarmStore.Database = "nas"
	return cfg
}

func TestConfigValidate_AcceptsMinimalConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
}

func TestConfigValidate_RequiresAlarmStoreHost(t *testing.T) {
	cfg := validConfig()
	cfg.AlarmStore.Host = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing alarm_store.host")
	}
}

func TestConfigValidate_RequiresSMSGatewayWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.SMS.Enabled = true
	cfg.SMS.GatewayURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing sms.gateway_url")
	}
}

func TestConfigValidate_RequiresEmailHostWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Email.Enabled = true
	cfg.Email.From = "relay@example.com"
	cfg.Email.Host = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing email.host")
	}
}

func TestDefaultConfig_SetsPollerDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Poller.Interval != time.Second {
		t.Errorf("interval = %v, want 1s", cfg.Poller.Interval)
	}
	if cfg.Poller.MaxConsecutiveErrors != 5 {
		t.Errorf("max consecutive errors = %d, want 5", cfg.Poller.MaxConsecutiveErrors)
	}
	if cfg.AlarmStore.Port != 1433 {
		t.Errorf("alarm store port = %d, want 1433", cfg.AlarmStore.Port)
	}
}

func TestLoadConfig_ParsesYAML(t *testing.T) {
	data := `
database:
  path: /var/lib/alertrelay/relay.db
alarm_store:
  host: alarms.internal
  user: relay_reader
  database: nas
poller:
  max_consecutive_errors: 10
api:
  enabled: true
  address: ":8081"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Database.Path != "/var/lib/alertrelay/relay.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Poller.Interval != time.Second {
		t.Errorf("poller interval = %v, want default 1s", cfg.Poller.Interval)
	}
	if cfg.Poller.MaxConsecutiveErrors != 10 {
		t.Errorf("max consecutive errors = %d, want 10", cfg.Poller.MaxConsecutiveErrors)
	}
	if !cfg.API.Enabled || cfg.API.Address != ":8081" {
		t.Errorf("api config = %+v", cfg.API)
	}
	// defaults still fill unset sections
	if cfg.Metrics.Address != ":9090" {
		t.Errorf("metrics address = %q, want :9090", cfg.Metrics.Address)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
