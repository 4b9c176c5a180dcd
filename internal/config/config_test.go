package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Tools.WhoisTimeout != 15*time.Second {
		t.Errorf("Expected whois timeout 15s, got %v", cfg.Tools.WhoisTimeout)
	}
	if cfg.Tools.PortScanTimeout != 120*time.Second {
		t.Errorf("Expected portscan timeout 120s, got %v", cfg.Tools.PortScanTimeout)
	}
	if cfg.Tools.SubdomainBatchSize != 20 {
		t.Errorf("Expected subdomain batch size 20, got %d", cfg.Tools.SubdomainBatchSize)
	}
	if cfg.Tools.SocialBatchSize != 7 {
		t.Errorf("Expected social batch size 7, got %d", cfg.Tools.SocialBatchSize)
	}
	if cfg.Tools.MaxFallbackPorts != 4096 {
		t.Errorf("Expected max fallback ports 4096, got %d", cfg.Tools.MaxFallbackPorts)
	}
	if cfg.Tools.DefaultPorts != "1-1024" {
		t.Errorf("Expected default ports '1-1024', got %s", cfg.Tools.DefaultPorts)
	}
	if cfg.API.ListenAddr != "127.0.0.1" {
		t.Errorf("Expected localhost-only listen address, got %s", cfg.API.ListenAddr)
	}
	if cfg.API.Port != 8000 {
		t.Errorf("Expected API port 8000, got %d", cfg.API.Port)
	}
	if !cfg.API.RateLimit.Enabled {
		t.Error("Expected rate limiting enabled by default")
	}
	if cfg.API.RateLimit.Requests != 60 || cfg.API.RateLimit.Window != time.Minute {
		t.Errorf("Expected rate limit 60/min, got %d/%v", cfg.API.RateLimit.Requests, cfg.API.RateLimit.Window)
	}
	if cfg.Auth.Authorized {
		t.Error("Authorization must not be pre-confirmed by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "partial yaml overrides defaults",
			content: `
api:
  port: 9000
tools:
  subdomain_batch_size: 10
  default_ports: "80,443"
logging:
  level: debug
`,
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.API.Port != 9000 {
					t.Errorf("Expected port 9000, got %d", cfg.API.Port)
				}
				if cfg.Tools.SubdomainBatchSize != 10 {
					t.Errorf("Expected batch size 10, got %d", cfg.Tools.SubdomainBatchSize)
				}
				if cfg.Tools.DefaultPorts != "80,443" {
					t.Errorf("Expected ports '80,443', got %s", cfg.Tools.DefaultPorts)
				}
				if cfg.Logging.Level != "debug" {
					t.Errorf("Expected level debug, got %s", cfg.Logging.Level)
				}
				// Untouched sections keep their defaults
				if cfg.Tools.SocialBatchSize != 7 {
					t.Errorf("Expected default social batch size, got %d", cfg.Tools.SocialBatchSize)
				}
			},
		},
		{
			name: "invalid yaml syntax",
			content: `
api:
  port: [unclosed
`,
			wantErr: true,
		},
		{
			name: "validation failure surfaces",
			content: `
logging:
  level: loud
`,
			wantErr: true,
		},
		{
			name: "out of range port",
			content: `
api:
  port: 70000
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && err == nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() with missing file should return defaults, got %v", err)
	}
	if cfg.Tools.WhoisTimeout != 15*time.Second {
		t.Errorf("Expected default whois timeout, got %v", cfg.Tools.WhoisTimeout)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.API.Port = 8443
	cfg.Tools.WaybackLimit = 100
	cfg.Auth.Operator = "ops"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save() failed: %v", err)
	}
	if loaded.API.Port != 8443 {
		t.Errorf("Expected port 8443 after reload, got %d", loaded.API.Port)
	}
	if loaded.Tools.WaybackLimit != 100 {
		t.Errorf("Expected wayback limit 100 after reload, got %d", loaded.Tools.WaybackLimit)
	}
	if loaded.Auth.Operator != "ops" {
		t.Errorf("Expected operator 'ops' after reload, got %s", loaded.Auth.Operator)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:    "default config is valid",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "zero whois timeout",
			mutate:  func(cfg *Config) { cfg.Tools.WhoisTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative dns timeout",
			mutate:  func(cfg *Config) { cfg.Tools.DNSTimeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "ping count too high",
			mutate:  func(cfg *Config) { cfg.Tools.DefaultPingCount = 11 },
			wantErr: true,
		},
		{
			name:    "zero subdomain batch",
			mutate:  func(cfg *Config) { cfg.Tools.SubdomainBatchSize = 0 },
			wantErr: true,
		},
		{
			name:    "zero fallback port cap",
			mutate:  func(cfg *Config) { cfg.Tools.MaxFallbackPorts = 0 },
			wantErr: true,
		},
		{
			name:    "empty default ports",
			mutate:  func(cfg *Config) { cfg.Tools.DefaultPorts = "" },
			wantErr: true,
		},
		{
			name:    "api port out of range",
			mutate:  func(cfg *Config) { cfg.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "empty listen address",
			mutate:  func(cfg *Config) { cfg.API.ListenAddr = "" },
			wantErr: true,
		},
		{
			name: "request timeout below portscan timeout",
			mutate: func(cfg *Config) {
				cfg.API.RequestTimeout = 10 * time.Second
			},
			wantErr: true,
		},
		{
			name:    "zero rate limit requests",
			mutate:  func(cfg *Config) { cfg.API.RateLimit.Requests = 0 },
			wantErr: true,
		},
		{
			name: "disabled rate limiting skips limit checks",
			mutate: func(cfg *Config) {
				cfg.API.RateLimit.Enabled = false
				cfg.API.RateLimit.Requests = 0
			},
			wantErr: false,
		},
		{
			name: "api disabled skips api checks",
			mutate: func(cfg *Config) {
				cfg.API.Enabled = false
				cfg.API.Port = 0
			},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	cfg := Default()

	if cfg.GetAPIAddress() != "127.0.0.1:8000" {
		t.Errorf("Expected address '127.0.0.1:8000', got %s", cfg.GetAPIAddress())
	}
	if !cfg.IsAPIEnabled() {
		t.Error("API should be enabled by default")
	}
	if cfg.GetLogOutput() != "stdout" {
		t.Errorf("Expected log output 'stdout', got %s", cfg.GetLogOutput())
	}
}
