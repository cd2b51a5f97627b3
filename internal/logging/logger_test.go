package logging

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/linear-mcp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig(), nil)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_NoOutputs(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stderr = false
	cfg.Output.OTEL = true

	_, err := NewLogger(cfg, nil)
	assert.Error(t, err)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	assert.Error(t, err)
}

func TestLogger_ContextFieldsAttached(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithRequestID(context.Background(), "abc-1")

	tl.Info(ctx, "tool call completed", zap.String("tool", "read_team_ids"))

	tl.AssertLogged(t, zapcore.InfoLevel, "tool call completed")
	tl.AssertField(t, "tool call completed", "request.id", "abc-1")
	tl.AssertField(t, "tool call completed", "tool", "read_team_ids")
}

func TestLogger_Levels(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tl.Trace(ctx, "trace msg")
	tl.Debug(ctx, "debug msg")
	tl.Warn(ctx, "warn msg")
	tl.Error(ctx, "error msg")

	tl.AssertLogged(t, TraceLevel, "trace msg")
	tl.AssertLogged(t, zapcore.DebugLevel, "debug msg")
	tl.AssertLogged(t, zapcore.WarnLevel, "warn msg")
	tl.AssertLogged(t, zapcore.ErrorLevel, "error msg")
	tl.AssertNotLogged(t, zapcore.InfoLevel, "warn msg")
}

func TestLogger_Named(t *testing.T) {
	tl := NewTestLogger()
	child := tl.Named("linear")

	child.Info(context.Background(), "hello", zap.String("component", "client"))

	entries := tl.FilterMessage("hello").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "linear", entries[0].LoggerName)
	tl.AssertField(t, "hello", "component", "client")
}

func TestLogger_NoSecrets(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "configured",
		Secret("api_key", config.Secret("lin_api_secretvalue")),
		zap.String("access_token", "[REDACTED:3]"),
	)
	tl.AssertNoSecrets(t)
}

func TestFromSettings(t *testing.T) {
	cfg, err := FromSettings(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)

	cfg, err = FromSettings(config.LoggingConfig{Level: "trace"})
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, cfg.Level)

	_, err = FromSettings(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestLevelFromString(t *testing.T) {
	level, err := LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)
}

func TestSync_IgnoresStdioErrors(t *testing.T) {
	logger := NewNop()
	assert.NoError(t, logger.Sync())
}
