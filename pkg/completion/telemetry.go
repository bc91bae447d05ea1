package completion

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// telemetry holds the metric instruments recorded by Run.
type telemetry struct {
	attempts  metric.Int64Counter
	runs      metric.Int64Counter
	durations metric.Float64Histogram
}

func newTelemetry(meter metric.Meter) (t *telemetry, err error) {
	t = &telemetry{}

	t.attempts, err = meter.Int64Counter(
		"refiner.completion.attempts",
		metric.WithDescription("Backend invocations made by the completion orchestrator"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to create attempts counter")
		return t, err
	}

	t.runs, err = meter.Int64Counter(
		"refiner.completion.runs",
		metric.WithDescription("Completed orchestrator runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to create runs counter")
		return t, err
	}

	t.durations, err = meter.Float64Histogram(
		"refiner.completion.attempt.duration_ms",
		metric.WithDescription("Backend invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to create duration histogram")
		return t, err
	}

	return t, err
}

func (t *telemetry) recordAttempt(ctx context.Context, a Attempt) {
	opt := metric.WithAttributes(
		attribute.String("backend", string(a.Backend)),
		attribute.String("outcome", a.Outcome()),
	)
	t.attempts.Add(ctx, 1, opt)
	t.durations.Record(ctx, float64(a.Elapsed.Milliseconds()), opt)
}

func (t *telemetry) recordRun(ctx context.Context, result string) {
	t.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
