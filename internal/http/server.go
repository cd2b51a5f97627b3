// Package http hosts the MCP streamable HTTP endpoint together with health
// and Prometheus metrics endpoints.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/linear-mcp/internal/logging"
	"github.com/fyrsmithlabs/linear-mcp/internal/telemetry"
)

// MCPPath is the route the MCP handler is mounted on.
const MCPPath = "/mcp"

// HealthReporter reports telemetry health for /health.
type HealthReporter interface {
	Health() telemetry.HealthStatus
}

// Server provides HTTP endpoints for linear-mcp.
type Server struct {
	echo     *echo.Echo
	logger   *logging.Logger
	config   *Config
	health   HealthReporter
	metrics  *HTTPMetrics
	gatherer prometheus.Gatherer
}

// Config holds HTTP server configuration.
type Config struct {
	Host    string
	Port    int
	Version string
}

// Option configures a Server.
type Option func(*Server)

// WithHealthReporter includes telemetry health in /health responses.
func WithHealthReporter(h HealthReporter) Option {
	return func(s *Server) {
		s.health = h
	}
}

// WithHTTPMetrics records OTel request metrics.
func WithHTTPMetrics(m *HTTPMetrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGatherer sets the Prometheus registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a new HTTP server serving mcpHandler on MCPPath.
func NewServer(mcpHandler http.Handler, logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if mcpHandler == nil {
		return nil, fmt.Errorf("mcp handler cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "127.0.0.1",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		logger:   logger.Named("http"),
		config:   cfg,
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if s.metrics != nil {
		e.Use(s.metrics.MetricsMiddleware())
	}
	e.Use(s.requestLogger)

	s.registerRoutes(mcpHandler)

	return s, nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		duration := time.Since(start)

		s.logger.Info(c.Request().Context(), "http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", duration),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)

		return err
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes(mcpHandler http.Handler) {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	// The streamable transport uses POST for messages, GET for the event
	// stream and DELETE to end a session.
	s.echo.Any(MCPPath, echo.WrapHandler(mcpHandler))
}

// handleHealth reports liveness. Degraded telemetry does not fail the check.
func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{
		Status:  "ok",
		Version: s.config.Version,
	}
	if s.health != nil {
		h := s.health.Health()
		resp.Telemetry = &TelemetryStatus{
			Healthy:  h.Healthy,
			Degraded: h.Degraded,
			Reasons:  h.Reasons,
		}
		if h.Degraded {
			resp.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start starts the HTTP server. It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	addr := s.Addr()
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
