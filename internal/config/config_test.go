package config

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Linear.APIKey = "lin_api_test"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultEndpoint, cfg.Linear.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Linear.Timeout.Duration())
	assert.Equal(t, 50, cfg.Linear.PageSize)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, "linear-mcp", cfg.Server.Name)
	assert.False(t, cfg.Linear.APIKey.IsSet())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.Linear.APIKey = "" }, wantErr: "api key is required"},
		{name: "empty endpoint", mutate: func(c *Config) { c.Linear.Endpoint = "" }, wantErr: "endpoint"},
		{name: "page size too large", mutate: func(c *Config) { c.Linear.PageSize = 500 }, wantErr: "page_size"},
		{name: "negative rate", mutate: func(c *Config) { c.Linear.RateLimit = -1 }, wantErr: "rate_limit"},
		{name: "unknown transport", mutate: func(c *Config) { c.Server.Transport = "websocket" }, wantErr: "transport must be"},
		{
			name: "http with bad port",
			mutate: func(c *Config) {
				c.Server.Transport = TransportHTTP
				c.Server.Port = 70000
			},
			wantErr: "invalid server port",
		},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: "shutdown timeout"},
		{
			name: "telemetry without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Endpoint = ""
			},
			wantErr: "telemetry endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSecret_NeverPrints(t *testing.T) {
	s := Secret("lin_api_supersecret")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.NotContains(t, fmt.Sprintf("%#v", s), "supersecret")

	data, err := json.Marshal(struct {
		Key Secret `json:"key"`
	}{Key: s})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"[REDACTED]"}`, string(data))

	assert.Equal(t, "lin_api_supersecret", s.Value())
	assert.Equal(t, "", Secret("").String())
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-5s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
