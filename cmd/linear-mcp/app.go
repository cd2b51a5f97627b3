package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/linear-mcp/internal/config"
	"github.com/fyrsmithlabs/linear-mcp/internal/linear"
	"github.com/fyrsmithlabs/linear-mcp/internal/logging"
	"github.com/fyrsmithlabs/linear-mcp/internal/mcp"
	"github.com/fyrsmithlabs/linear-mcp/internal/telemetry"
)

const instrumentationName = "github.com/fyrsmithlabs/linear-mcp"

// app holds the assembled process dependencies.
type app struct {
	cfg    *config.Config
	tel    *telemetry.Telemetry
	logger *logging.Logger
	client *linear.Client
	server *mcp.Server
}

// loadConfig loads configuration and applies the build version.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if version != "dev" {
		cfg.Server.Version = version
	}
	return cfg, nil
}

// newApp wires telemetry, logging, the Linear client and the MCP server.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	tel, err := telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, cfg.Server.Version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger, err := newLogger(cfg, tel)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	client, err := linear.New(cfg.Linear, linear.WithLogger(logger))
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create linear client: %w", err)
	}

	server, err := mcp.NewServer(
		&mcp.Config{Name: cfg.Server.Name, Version: cfg.Server.Version},
		client,
		logger,
		mcp.WithMetrics(mcp.NewMetrics(tel.Meter(instrumentationName), logger)),
		mcp.WithTracer(tel.Tracer(instrumentationName)),
	)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create mcp server: %w", err)
	}

	logger.Info(ctx, "linear-mcp initialized",
		zap.String("version", cfg.Server.Version),
		zap.String("transport", cfg.Server.Transport),
		zap.String("endpoint", cfg.Linear.Endpoint),
		logging.Secret("api_key", cfg.Linear.APIKey),
		zap.Bool("telemetry", tel.IsEnabled()),
	)

	return &app{
		cfg:    cfg,
		tel:    tel,
		logger: logger,
		client: client,
		server: server,
	}, nil
}

func newLogger(cfg *config.Config, tel *telemetry.Telemetry) (*logging.Logger, error) {
	logCfg, err := logging.FromSettings(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// close flushes telemetry and logs. ctx bounds the flush.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if err := a.tel.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if err := a.logger.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}
	return errors.Join(errs...)
}
