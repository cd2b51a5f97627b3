// Package config provides configuration loading for linear-mcp.
//
// Configuration is read once at startup from an optional YAML file and the
// environment. The Linear API key is the only mandatory value.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Transport names accepted by ServerConfig.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultEndpoint is the Linear GraphQL API endpoint.
const DefaultEndpoint = "https://api.linear.app/graphql"

// Config holds the complete linear-mcp configuration.
type Config struct {
	Linear    LinearConfig    `koanf:"linear"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// LinearConfig holds Linear API client configuration.
type LinearConfig struct {
	APIKey      Secret   `koanf:"api_key"`
	AccessToken Secret   `koanf:"access_token"`
	Endpoint    string   `koanf:"endpoint"`
	Timeout     Duration `koanf:"timeout"`
	RateLimit   float64  `koanf:"rate_limit"` // requests per second
	Burst       int      `koanf:"burst"`
	PageSize    int      `koanf:"page_size"` // issues per active-issues read; teams are not paged by it
}

// ServerConfig holds MCP server configuration.
type ServerConfig struct {
	Name            string   `koanf:"name"`
	Version         string   `koanf:"version"`
	Transport       string   `koanf:"transport"`
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds the subset of logging settings exposed to users.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Protocol    string  `koanf:"protocol"` // grpc or http/protobuf
	Insecure    bool    `koanf:"insecure"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Default returns a Config populated with defaults and no credentials.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
//
// A missing API key is reported here so the process refuses to start instead
// of failing on the first request.
func (c *Config) Validate() error {
	if !c.Linear.APIKey.IsSet() {
		return errors.New("linear api key is required (set LINEAR_API_KEY)")
	}
	if c.Linear.Endpoint == "" {
		return errors.New("linear endpoint cannot be empty")
	}
	if c.Linear.Timeout.Duration() <= 0 {
		return errors.New("linear timeout must be positive")
	}
	if c.Linear.RateLimit < 0 {
		return fmt.Errorf("linear rate_limit must be >= 0, got %v", c.Linear.RateLimit)
	}
	if c.Linear.PageSize < 1 || c.Linear.PageSize > 250 {
		return fmt.Errorf("linear page_size must be 1-250, got %d", c.Linear.PageSize)
	}

	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
		}
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Server.Transport)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return errors.New("telemetry endpoint required when telemetry is enabled")
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Linear.Endpoint == "" {
		cfg.Linear.Endpoint = DefaultEndpoint
	}
	if cfg.Linear.Timeout == 0 {
		cfg.Linear.Timeout = Duration(30 * time.Second)
	}
	if cfg.Linear.RateLimit == 0 {
		cfg.Linear.RateLimit = 20
	}
	if cfg.Linear.Burst == 0 {
		cfg.Linear.Burst = 5
	}
	if cfg.Linear.PageSize == 0 {
		cfg.Linear.PageSize = 50
	}

	if cfg.Server.Name == "" {
		cfg.Server.Name = "linear-mcp"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "0.1.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9191
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "linear-mcp"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
}
