// Package telemetry provides OpenTelemetry tracing and metrics for linear-mcp.
//
// Traces and metrics are exported over OTLP (gRPC or HTTP/protobuf) to a
// collector. Telemetry is off by default; when it is off, or when a provider
// cannot be created, Tracer and Meter fall back to the global no-op providers
// and the server keeps running.
//
// # Usage
//
//	tel, err := telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	ctx, span := tel.Tracer("linear-mcp/linear").Start(ctx, "linear.createIssue")
//	defer span.End()
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: "grpc"        # or "http/protobuf"
//	  insecure: true
//	  sample_rate: 1.0
//
// # Testing
//
// NewTestTelemetry records spans in memory and collects metrics through a
// manual reader:
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "test-span")
//	span.End()
//	tt.AssertSpanExists(t, "test-span")
package telemetry
