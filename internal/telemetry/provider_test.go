package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewResource(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ServiceVersion = "9.9.9"

	res := newResource(cfg)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "linear-mcp", attrs["service.name"])
	assert.Equal(t, "9.9.9", attrs["service.version"])
}

func TestNewTracerProvider_WithExporter(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	exporter := tracetest.NewInMemoryExporter()

	tp, err := newTracerProvider(ctx, cfg, newResource(cfg), WithTraceExporter(exporter))
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "linear.listTeams")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "linear.listTeams", spans[0].Name)
	require.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_NeverSample(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	cfg.Sampling.Rate = 0
	exporter := tracetest.NewInMemoryExporter()

	tp, err := newTracerProvider(ctx, cfg, newResource(cfg), WithTraceExporter(exporter))
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "dropped")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	assert.Empty(t, exporter.GetSpans())
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Metrics.Enabled = false

	mp, err := newMeterProvider(context.Background(), cfg, newResource(cfg))
	require.NoError(t, err)
	assert.Nil(t, mp)
}

// recordingMetricExporter keeps the last exported batch.
type recordingMetricExporter struct {
	mu      sync.Mutex
	batches []metricdata.ResourceMetrics
}

func (e *recordingMetricExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return cumulativeSelector(k)
}

func (e *recordingMetricExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

func (e *recordingMetricExporter) Export(_ context.Context, rm *metricdata.ResourceMetrics) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batches = append(e.batches, *rm)
	return nil
}

func (e *recordingMetricExporter) ForceFlush(context.Context) error { return nil }
func (e *recordingMetricExporter) Shutdown(context.Context) error   { return nil }

func TestNewMeterProvider_WithExporter(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	exporter := &recordingMetricExporter{}

	mp, err := newMeterProvider(ctx, cfg, newResource(cfg), WithMetricExporter(exporter))
	require.NoError(t, err)
	require.NotNil(t, mp)

	counter, err := mp.Meter("test").Int64Counter("linear_mcp.tool.invocations_total")
	require.NoError(t, err)
	counter.Add(ctx, 3)
	require.NoError(t, mp.ForceFlush(ctx))

	exporter.mu.Lock()
	batches := exporter.batches
	exporter.mu.Unlock()
	require.NotEmpty(t, batches)

	m, ok := FindMetric(batches[len(batches)-1], "linear_mcp.tool.invocations_total")
	require.True(t, ok)
	assert.Equal(t, int64(3), SumInt64(m))
	require.NoError(t, mp.Shutdown(ctx))
}

func TestNewLoggerProvider_WithExporter(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	exporter := &testLogExporter{}

	lp, err := newLoggerProvider(ctx, cfg, newResource(cfg), WithLogExporter(exporter))
	require.NoError(t, err)
	require.NotNil(t, lp)

	var rec log.Record
	rec.SetBody(log.StringValue("tool call completed"))
	lp.Logger("test").Emit(ctx, rec)
	require.NoError(t, lp.ForceFlush(ctx))

	records := exporter.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "tool call completed", records[0].Body().AsString())
	require.NoError(t, lp.Shutdown(ctx))
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Logs.Enabled = false

	lp, err := newLoggerProvider(context.Background(), cfg, newResource(cfg))
	require.NoError(t, err)
	assert.Nil(t, lp)
}
