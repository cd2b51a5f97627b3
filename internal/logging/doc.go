// Package logging provides structured logging with OpenTelemetry integration.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - stderr output (stdout is reserved for the stdio MCP stream) plus an
//     optional OpenTelemetry log bridge
//   - Automatic context field injection (trace_id, request.id, mcp.method, mcp.tool)
//   - Secret redaction at the encoder
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, uuid.NewString())
//	ctx = logging.WithTool(ctx, "create_issue")
//	logger.Info(ctx, "tool call finished", zap.Duration("duration", d))
//
// # Secret Redaction
//
// The Linear API key and access token are config.Secret values and render as
// [REDACTED:n] through logging.Secret. Fields named api_key, token,
// authorization and similar are redacted by the encoder regardless of type.
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertNoSecrets(t)
package logging
