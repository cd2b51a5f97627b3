package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/linear-mcp/internal/config"
	httpserver "github.com/fyrsmithlabs/linear-mcp/internal/http"
)

var transportFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server until the client disconnects or the process is
interrupted.

Examples:
  # Serve a single client over stdin/stdout
  LINEAR_API_KEY=lin_api_... linear-mcp serve

  # Serve streamable HTTP on /mcp with /health and /metrics
  linear-mcp serve --transport http`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&transportFlag, "transport", "", "transport to serve: stdio or http (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if transportFlag != "" {
		cfg.Server.Transport = transportFlag
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return serve(ctx, cfg, &mcpsdk.StdioTransport{})
}

// serve runs the configured transport until ctx is done. stdio is used when
// the configured transport is stdio.
func serve(ctx context.Context, cfg *config.Config, stdio mcpsdk.Transport) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		if err := a.close(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "linear-mcp: %v\n", err)
		}
	}()

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		return serveHTTP(ctx, a)
	default:
		err := a.server.Run(ctx, stdio)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

func serveHTTP(ctx context.Context, a *app) error {
	srv, err := httpserver.NewServer(a.server.Handler(), a.logger, &httpserver.Config{
		Host:    a.cfg.Server.Host,
		Port:    a.cfg.Server.Port,
		Version: a.cfg.Server.Version,
	},
		httpserver.WithHealthReporter(a.tel),
		httpserver.WithHTTPMetrics(httpserver.NewHTTPMetrics(a.tel.Meter(instrumentationName), a.logger)),
	)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info(ctx, "shutdown signal received", zap.Duration("timeout", a.cfg.Server.ShutdownTimeout.Duration()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
