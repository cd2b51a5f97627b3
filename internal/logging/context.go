// internal/logging/context.go
package logging

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 6)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request.id", requestID))
	}
	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		fields = append(fields, zap.String("session.id", sessionID))
	}
	if method := MethodFromContext(ctx); method != "" {
		fields = append(fields, zap.String("mcp.method", method))
	}
	if tool := ToolFromContext(ctx); tool != "" {
		fields = append(fields, zap.String("mcp.tool", tool))
	}

	return fields
}

type requestCtxKey struct{}
type sessionCtxKey struct{}
type methodCtxKey struct{}
type toolCtxKey struct{}

const maxIDLen = 128

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateID validates a session or request ID.
func validateID(id, name string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("%s contains invalid UTF-8", name)
	}
	if len(id) > maxIDLen {
		return fmt.Errorf("%s exceeds max length %d", name, maxIDLen)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (must be alphanumeric, hyphen, underscore)", name)
	}
	return nil
}

// RequestIDFromContext extracts request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// WithRequestID adds request ID to context.
// Panics if requestID is empty or contains invalid characters.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if err := validateID(requestID, "requestID"); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, requestCtxKey{}, requestID)
}

// SessionIDFromContext extracts the MCP session ID from context.
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithSessionID adds the MCP session ID to context. Session IDs come from the
// client, so invalid values are dropped rather than rejected.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if validateID(sessionID, "sessionID") != nil {
		return ctx
	}
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// MethodFromContext extracts the MCP method name from context.
func MethodFromContext(ctx context.Context) string {
	if m, ok := ctx.Value(methodCtxKey{}).(string); ok {
		return m
	}
	return ""
}

// WithMethod adds the MCP method name (tools/call, resources/read, ...) to context.
func WithMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, methodCtxKey{}, method)
}

// ToolFromContext extracts the tool name from context.
func ToolFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(toolCtxKey{}).(string); ok {
		return t
	}
	return ""
}

// WithTool adds the tool name to context.
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, toolCtxKey{}, tool)
}
