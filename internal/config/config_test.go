package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/latination/lineup/internal/schedule"
)

func TestLoad(t *testing.T) {
	// Create temp config file
	content := `
server:
  hostname: "calendar.latination.com"

api:
  listen_addr: ":9080"
  api_key: "test-api-key"
  read_timeout: 15s

content:
  dir: "/srv/lineup/content"

storage:
  path: "/tmp/overlay.db"

season:
  start_year: 2025
  start_month: 9
  end_year: 2026
  end_month: 12

notify:
  enabled: true
  host: "smtp.latination.com"
  username: "lineup"
  password: "secret"
  from: "lineup@latination.com"
  to:
    - "programming@latination.com"

logging:
  level: "debug"
  format: "text"
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check values
	if cfg.Server.Hostname != "calendar.latination.com" {
		t.Errorf("Hostname = %v, want calendar.latination.com", cfg.Server.Hostname)
	}
	if cfg.API.ListenAddr != ":9080" {
		t.Errorf("API.ListenAddr = %v, want :9080", cfg.API.ListenAddr)
	}
	if cfg.API.APIKey != "test-api-key" {
		t.Errorf("API.APIKey = %v, want test-api-key", cfg.API.APIKey)
	}
	if cfg.API.ReadTimeout != 15*time.Second {
		t.Errorf("API.ReadTimeout = %v, want 15s", cfg.API.ReadTimeout)
	}
	if cfg.Content.Dir != "/srv/lineup/content" {
		t.Errorf("Content.Dir = %v", cfg.Content.Dir)
	}
	if cfg.Storage.Path != "/tmp/overlay.db" {
		t.Errorf("Storage.Path = %v", cfg.Storage.Path)
	}
	if cfg.Season.StartYear != 2025 || cfg.Season.EndMonth != 12 {
		t.Errorf("Season = %+v", cfg.Season)
	}
	if !cfg.Notify.Enabled || cfg.Notify.Host != "smtp.latination.com" {
		t.Errorf("Notify = %+v", cfg.Notify)
	}
	if cfg.Notify.Port != 587 {
		t.Errorf("Notify.Port = %v, want default 587", cfg.Notify.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `
server:
  hostname: "calendar.latination.com"
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check defaults
	if cfg.API.ListenAddr != ":8080" {
		t.Errorf("API.ListenAddr = %v, want :8080", cfg.API.ListenAddr)
	}
	if cfg.API.ReadTimeout != 30*time.Second {
		t.Errorf("API.ReadTimeout = %v, want 30s", cfg.API.ReadTimeout)
	}
	if cfg.Content.Dir != "content" {
		t.Errorf("Content.Dir = %v, want content", cfg.Content.Dir)
	}
	if cfg.Season != schedule.DefaultSeason() {
		t.Errorf("Season = %+v, want default season", cfg.Season)
	}
	if cfg.Metrics.ListenAddr != ":9090" {
		t.Errorf("Metrics.ListenAddr = %v, want :9090", cfg.Metrics.ListenAddr)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %v, want /metrics", cfg.Metrics.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %v, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %v, want json", cfg.Logging.Format)
	}
}

func TestValidate(t *testing.T) {
	valid := func(mutate func(*Config)) Config {
		cfg := Config{
			Season:  schedule.DefaultSeason(),
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
		if mutate != nil {
			mutate(&cfg)
		}
		return cfg
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     valid(nil),
			wantErr: false,
		},
		{
			name: "backwards season",
			cfg: valid(func(c *Config) {
				c.Season = schedule.Season{StartYear: 2026, StartMonth: 9, EndYear: 2025, EndMonth: 12}
			}),
			wantErr: true,
		},
		{
			name: "invalid log level",
			cfg: valid(func(c *Config) {
				c.Logging.Level = "invalid"
			}),
			wantErr: true,
		},
		{
			name: "invalid log format",
			cfg: valid(func(c *Config) {
				c.Logging.Format = "invalid"
			}),
			wantErr: true,
		},
		{
			name: "manual certs and ACME together",
			cfg: valid(func(c *Config) {
				c.API.TLS = TLSConfig{
					CertFile: "cert.pem",
					KeyFile:  "key.pem",
					ACME:     ACMEConfig{Enabled: true, Email: "a@b.c", Domains: []string{"x"}},
				}
			}),
			wantErr: true,
		},
		{
			name: "cert without key",
			cfg: valid(func(c *Config) {
				c.API.TLS.CertFile = "cert.pem"
			}),
			wantErr: true,
		},
		{
			name: "ACME without email",
			cfg: valid(func(c *Config) {
				c.API.TLS.ACME = ACMEConfig{Enabled: true, Domains: []string{"calendar.latination.com"}}
			}),
			wantErr: true,
		},
		{
			name: "notify enabled without host",
			cfg: valid(func(c *Config) {
				c.Notify = NotifyConfig{Enabled: true, From: "a@b.c", To: []string{"x@y.z"}}
			}),
			wantErr: true,
		},
		{
			name: "notify enabled without recipients",
			cfg: valid(func(c *Config) {
				c.Notify = NotifyConfig{Enabled: true, Host: "smtp.test", From: "a@b.c"}
			}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}
