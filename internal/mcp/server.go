package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/linear-mcp/internal/logging"
)

const (
	methodCallTool     = "tools/call"
	methodReadResource = "resources/read"
)

// Server serves the Linear catalog over MCP.
type Server struct {
	mcp        *mcp.Server
	reader     *Reader
	dispatcher *Dispatcher
	metrics    *Metrics
	tracer     trace.Tracer
	logger     *logging.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the implementation name reported at initialization.
	Name string

	// Version is the implementation version reported at initialization.
	Version string
}

// DefaultConfig returns the default server identity.
func DefaultConfig() *Config {
	return &Config{
		Name:    "linear-mcp",
		Version: "1.0.0",
	}
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics sets the instruments the server records into.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// NewServer creates a server exposing backend through the catalog.
func NewServer(cfg *Config, backend Backend, logger *logging.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		reader:     NewReader(backend),
		dispatcher: NewDispatcher(backend),
		logger:     logger.Named("mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil, s.logger)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(instrumentationName)
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s.register()
	s.mcp.AddReceivingMiddleware(s.middleware)

	return s, nil
}

// register adds the catalog to the underlying server. Reads never reach the
// resource handlers registered here: the middleware routes them first.
func (s *Server) register() {
	readHandler := func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.handleRead(ctx, req.Params.URI)
	}
	for _, r := range Resources() {
		s.mcp.AddResource(r, readHandler)
	}
	for _, t := range ResourceTemplates() {
		s.mcp.AddResourceTemplate(t, readHandler)
	}
	for _, t := range Tools() {
		s.mcp.AddTool(t, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.handleTool(ctx, req.Params.Name, req.Params.Arguments)
		})
	}
}

// middleware attaches correlation data to the request context and handles
// the methods whose error semantics differ from the SDK defaults.
func (s *Server) middleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		ctx = logging.WithRequestID(ctx, uuid.NewString())
		ctx = logging.WithMethod(ctx, method)
		if ss, ok := req.GetSession().(*mcp.ServerSession); ok && ss != nil {
			ctx = logging.WithSessionID(ctx, ss.ID())
		}

		switch r := req.(type) {
		case *mcp.ReadResourceRequest:
			if r.Params == nil {
				return nil, toProtocolError(unknownResource(""))
			}
			return s.handleRead(ctx, r.Params.URI)
		case *mcp.CallToolRequest:
			if r.Params != nil && !s.dispatcher.Has(r.Params.Name) {
				err := unknownTool(r.Params.Name)
				s.logger.Warn(ctx, "tool call rejected", zap.String("tool", r.Params.Name), zap.Error(err))
				s.metrics.RecordInvocation(ctx, r.Params.Name, 0, err)
				return nil, toProtocolError(err)
			}
		}

		s.logger.Trace(ctx, "handling request")
		return next(ctx, method, req)
	}
}

// handleRead serves resources/read. Every failure is a protocol error.
func (s *Server) handleRead(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	ctx, span := s.tracer.Start(ctx, "mcp.resources.read",
		trace.WithAttributes(attribute.String("mcp.resource.uri", uri)),
	)
	defer span.End()

	kind := "unknown"
	if rt, _, ok := s.reader.route(uri); ok {
		kind = rt.name
	}

	res, err := s.reader.ReadResource(ctx, uri)
	s.metrics.RecordRead(ctx, kind, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logFailure(ctx, "resource read failed", err, zap.String("uri", uri))
		return nil, toProtocolError(err)
	}

	s.logger.Debug(ctx, "resource read", zap.String("uri", uri), zap.String("kind", kind))
	return res, nil
}

// handleTool serves tools/call for catalog tools.
func (s *Server) handleTool(ctx context.Context, name string, args []byte) (*mcp.CallToolResult, error) {
	ctx = logging.WithTool(ctx, name)
	ctx, span := s.tracer.Start(ctx, "mcp.tools.call",
		trace.WithAttributes(attribute.String("mcp.tool.name", name)),
	)
	defer span.End()

	s.metrics.IncrementActive(ctx, name)
	defer s.metrics.DecrementActive(ctx, name)

	start := time.Now()
	res, err := s.dispatcher.CallTool(ctx, name, args)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.RecordInvocation(ctx, name, elapsed, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logFailure(ctx, "tool call failed", err)
		return nil, toProtocolError(err)
	}

	if res.IsError {
		failure := &BackendError{Op: name, Err: errors.New(resultText(res))}
		s.metrics.RecordInvocation(ctx, name, elapsed, failure)
		span.SetStatus(codes.Error, "backend error")
		s.logger.Warn(ctx, "tool returned error result", zap.Duration("duration", elapsed))
		return res, nil
	}

	s.metrics.RecordInvocation(ctx, name, elapsed, nil)
	s.logger.Info(ctx, "tool call completed", zap.Duration("duration", elapsed))
	return res, nil
}

// logFailure logs client mistakes at Warn and everything else at Error.
func (s *Server) logFailure(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case errors.Is(err, ErrUnknownResource), errors.Is(err, ErrUnknownTool), errors.Is(err, ErrInvalidArguments):
		s.logger.Warn(ctx, msg, fields...)
	default:
		s.logger.Error(ctx, msg, fields...)
	}
}

func resultText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Run serves a single session on t until the client disconnects or ctx is
// done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	if t == nil {
		t = &mcp.StdioTransport{}
	}
	s.logger.Info(ctx, "starting MCP server", zap.String("transport", fmt.Sprintf("%T", t)))
	if err := s.mcp.Run(ctx, t); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}
