package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete reconkit configuration
type Config struct {
	// Tool execution configuration
	Tools ToolsConfig `yaml:"tools" json:"tools"`

	// API configuration
	API APIConfig `yaml:"api" json:"api"`

	// Authorization gate configuration
	Auth AuthConfig `yaml:"auth" json:"auth"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ToolsConfig holds timeouts and caps for the tool-execution engine.
// Every external invocation carries a mandatory wall-clock timeout; the
// values here are the per-operation defaults.
type ToolsConfig struct {
	// Whois lookup timeout
	WhoisTimeout time.Duration `yaml:"whois_timeout" json:"whois_timeout"`

	// DNS lookup timeout (dig)
	DNSTimeout time.Duration `yaml:"dns_timeout" json:"dns_timeout"`

	// Reverse DNS lookup timeout
	ReverseDNSTimeout time.Duration `yaml:"reverse_dns_timeout" json:"reverse_dns_timeout"`

	// Ping timeout (whole invocation, not per packet)
	PingTimeout time.Duration `yaml:"ping_timeout" json:"ping_timeout"`

	// Default ping packet count when the request leaves it unset
	DefaultPingCount int `yaml:"default_ping_count" json:"default_ping_count"`

	// Port scan timeout (nmap invocation)
	PortScanTimeout time.Duration `yaml:"portscan_timeout" json:"portscan_timeout"`

	// Default port specification for scans
	DefaultPorts string `yaml:"default_ports" json:"default_ports"`

	// Per-port connect timeout for the socket fallback
	PortProbeTimeout time.Duration `yaml:"port_probe_timeout" json:"port_probe_timeout"`

	// Maximum ports the socket fallback will expand to
	MaxFallbackPorts int `yaml:"max_fallback_ports" json:"max_fallback_ports"`

	// HTTP header/body fetch timeout (curl invocation)
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout"`

	// Per-probe timeout for subdomain resolution checks
	SubdomainProbeTimeout time.Duration `yaml:"subdomain_probe_timeout" json:"subdomain_probe_timeout"`

	// Concurrent probes per subdomain batch
	SubdomainBatchSize int `yaml:"subdomain_batch_size" json:"subdomain_batch_size"`

	// Per-probe timeout for social platform checks
	SocialProbeTimeout time.Duration `yaml:"social_probe_timeout" json:"social_probe_timeout"`

	// Concurrent probes per social batch
	SocialBatchSize int `yaml:"social_batch_size" json:"social_batch_size"`

	// Per-page fetch timeout for email harvesting
	EmailPageTimeout time.Duration `yaml:"email_page_timeout" json:"email_page_timeout"`

	// Archive (CDX) listing timeout
	WaybackTimeout time.Duration `yaml:"wayback_timeout" json:"wayback_timeout"`

	// Maximum archive URLs requested from the CDX endpoint
	WaybackLimit int `yaml:"wayback_limit" json:"wayback_limit"`

	// User agent presented by HTTP-based probes
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// APIConfig holds API server settings
type APIConfig struct {
	// Enable API server
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Listen address
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`

	// Listen port
	Port int `yaml:"port" json:"port"`

	// Bcrypt hash of the API key; empty disables key auth
	APIKeyHash string `yaml:"api_key_hash" json:"api_key_hash"`

	// CORS settings
	CORS CORSConfig `yaml:"cors" json:"cors"`

	// Rate limiting settings
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Request timeout. Must cover the slowest tool (port scans).
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`

	// Maximum request size
	MaxRequestSize int64 `yaml:"max_request_size" json:"max_request_size"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// RateLimitConfig holds per-client request rate limits
type RateLimitConfig struct {
	// Enable rate limiting
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Requests allowed per client per window
	Requests int `yaml:"requests" json:"requests"`

	// Window length for the request budget
	Window time.Duration `yaml:"window" json:"window"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	// Enable CORS
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Allowed origins
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`

	// Allowed methods
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`

	// Allowed headers
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
}

// AuthConfig holds the authorization gate defaults. The gate itself is
// runtime state; these only seed it.
type AuthConfig struct {
	// Pre-confirm authorization at startup (CLI convenience)
	Authorized bool `yaml:"authorized" json:"authorized"`

	// Operator label recorded on grants
	Operator string `yaml:"operator" json:"operator"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format"`

	// Log output (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`

	// Include source locations in log records
	AddSource bool `yaml:"add_source" json:"add_source"`

	// Enable request logging for API
	RequestLogging bool `yaml:"request_logging" json:"request_logging"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			WhoisTimeout:          15 * time.Second,
			DNSTimeout:            10 * time.Second,
			ReverseDNSTimeout:     10 * time.Second,
			PingTimeout:           20 * time.Second,
			DefaultPingCount:      4,
			PortScanTimeout:       120 * time.Second,
			DefaultPorts:          "1-1024",
			PortProbeTimeout:      1 * time.Second,
			MaxFallbackPorts:      4096,
			HTTPTimeout:           15 * time.Second,
			SubdomainProbeTimeout: 5 * time.Second,
			SubdomainBatchSize:    20,
			SocialProbeTimeout:    12 * time.Second,
			SocialBatchSize:       7,
			EmailPageTimeout:      12 * time.Second,
			WaybackTimeout:        20 * time.Second,
			WaybackLimit:          500,
			UserAgent:             "Mozilla/5.0 (compatible; reconkit/1.0)",
		},
		API: APIConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1",
			Port:       8000,
			APIKeyHash: "",
			CORS: CORSConfig{
				Enabled: true,
				AllowedOrigins: []string{
					"http://127.0.0.1:8000",
					"http://localhost:8000",
				},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
			},
			RateLimit: RateLimitConfig{
				Enabled:  true,
				Requests: 60,
				Window:   time.Minute,
			},
			RequestTimeout:  3 * time.Minute,
			MaxRequestSize:  1024 * 1024, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			Authorized: false,
			Operator:   "",
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			Output:         "stdout",
			AddSource:      false,
			RequestLogging: true,
		},
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	// Start with defaults
	config := Default()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // Return defaults if no config file
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write file
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate tool configuration
	timeouts := map[string]time.Duration{
		"tools.whois_timeout":           c.Tools.WhoisTimeout,
		"tools.dns_timeout":             c.Tools.DNSTimeout,
		"tools.reverse_dns_timeout":     c.Tools.ReverseDNSTimeout,
		"tools.ping_timeout":            c.Tools.PingTimeout,
		"tools.portscan_timeout":        c.Tools.PortScanTimeout,
		"tools.port_probe_timeout":      c.Tools.PortProbeTimeout,
		"tools.http_timeout":            c.Tools.HTTPTimeout,
		"tools.subdomain_probe_timeout": c.Tools.SubdomainProbeTimeout,
		"tools.social_probe_timeout":    c.Tools.SocialProbeTimeout,
		"tools.email_page_timeout":      c.Tools.EmailPageTimeout,
		"tools.wayback_timeout":         c.Tools.WaybackTimeout,
	}
	for field, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
	}

	if c.Tools.DefaultPingCount < 1 || c.Tools.DefaultPingCount > 10 {
		return fmt.Errorf("default ping count must be between 1 and 10")
	}
	if c.Tools.SubdomainBatchSize <= 0 {
		return fmt.Errorf("subdomain batch size must be positive")
	}
	if c.Tools.SocialBatchSize <= 0 {
		return fmt.Errorf("social batch size must be positive")
	}
	if c.Tools.MaxFallbackPorts <= 0 {
		return fmt.Errorf("max fallback ports must be positive")
	}
	if c.Tools.WaybackLimit <= 0 {
		return fmt.Errorf("wayback limit must be positive")
	}
	if c.Tools.DefaultPorts == "" {
		return fmt.Errorf("default ports specification is required")
	}

	// Validate API configuration
	if c.API.Enabled {
		if c.API.Port <= 0 || c.API.Port > 65535 {
			return fmt.Errorf("API port must be between 1 and 65535")
		}
		if c.API.ListenAddr == "" {
			return fmt.Errorf("API listen address is required when API is enabled")
		}
		if c.API.RequestTimeout < c.Tools.PortScanTimeout {
			return fmt.Errorf("API request timeout must cover the port scan timeout")
		}
		if c.API.RateLimit.Enabled {
			if c.API.RateLimit.Requests <= 0 {
				return fmt.Errorf("API rate limit requests must be positive")
			}
			if c.API.RateLimit.Window <= 0 {
				return fmt.Errorf("API rate limit window must be positive")
			}
		}
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// GetAPIAddress returns the full API address
func (c *Config) GetAPIAddress() string {
	return fmt.Sprintf("%s:%d", c.API.ListenAddr, c.API.Port)
}

// IsAPIEnabled returns true if API server is enabled
func (c *Config) IsAPIEnabled() bool {
	return c.API.Enabled
}

// GetLogOutput returns the log output destination
func (c *Config) GetLogOutput() string {
	return c.Logging.Output
}
