package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func findMetric(rm metricdata.ResourceMetrics, name string) (found *metricdata.Metrics) {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				found = &sm.Metrics[i]
				return found
			}
		}
	}
	return found
}

func TestTelemetryCountsAttemptsByOutcome(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	o, err := New(Config{Policy: Policy{BaseDelay: time.Millisecond}, Meter: mp.Meter("test")})
	require.NoError(t, err)

	inv := newScripted().on("a", fails(429)).on("b", ok("text"))
	_, err = o.Run(context.Background(), NewChain("a", "b"), "p", inv)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	attempts := findMetric(rm, "refiner.completion.attempts")
	require.NotNil(t, attempts)
	sum, isSum := attempts.Data.(metricdata.Sum[int64])
	require.True(t, isSum, "expected Sum[int64], got %T", attempts.Data)

	byOutcome := map[string]int64{}
	for _, dp := range sum.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		byOutcome[outcome.AsString()] += dp.Value
	}
	assert.Equal(t, int64(1), byOutcome["rate_limited"])
	assert.Equal(t, int64(1), byOutcome["success"])

	runs := findMetric(rm, "refiner.completion.runs")
	require.NotNil(t, runs)
	runSum := runs.Data.(metricdata.Sum[int64])
	require.Len(t, runSum.DataPoints, 1)
	result, _ := runSum.DataPoints[0].Attributes.Value(attribute.Key("result"))
	assert.Equal(t, "success", result.AsString())

	assert.NotNil(t, findMetric(rm, "refiner.completion.attempt.duration_ms"))
}

func TestRunRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	o, err := New(Config{Policy: Policy{BaseDelay: time.Millisecond}, Tracer: tp.Tracer("test")})
	require.NoError(t, err)

	_, err = o.Run(context.Background(), NewChain("a"), "p", newScripted().on("a", fails(401)))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "completion.run", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(1), attrs["chain.length"].AsInt64())
	assert.Equal(t, int64(1), attrs["attempts"].AsInt64())
}
