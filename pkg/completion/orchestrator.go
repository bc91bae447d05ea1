// Package completion obtains a text completion from an ordered chain of
// interchangeable backends, retrying transient failures and failing over on
// rate limits and empty answers.
package completion

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is the per-backend attempt bound for transient failures.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the linear backoff step: retry n waits n × DefaultBaseDelay.
	DefaultBaseDelay = 2 * time.Second

	instrumentationName = "github.com/nikogura/resume-refiner/pkg/completion"
)

// FatalPolicy decides what a fatal failure does to the rest of the chain.
type FatalPolicy int

const (
	// FatalAbort stops the run on the first fatal failure.
	FatalAbort FatalPolicy = iota
	// FatalSkip abandons only the failing backend and moves on.
	FatalSkip
)

// ParseFatalPolicy maps "abort" and "skip" to a FatalPolicy.
func ParseFatalPolicy(s string) (policy FatalPolicy, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		policy = FatalAbort
	case "skip":
		policy = FatalSkip
	default:
		err = errors.Errorf("invalid fatal policy %q: must be 'abort' or 'skip'", s)
	}
	return policy, err
}

func (p FatalPolicy) String() (name string) {
	name = "abort"
	if p == FatalSkip {
		name = "skip"
	}
	return name
}

// Policy is the retry and failover policy of an Orchestrator.
type Policy struct {
	// MaxAttempts bounds attempts per backend on transient failures. Default: 3.
	MaxAttempts int
	// BaseDelay is the linear backoff step. Default: 2s.
	BaseDelay time.Duration
	// OnFatal selects abort-on-fatal (default) or skip-and-continue.
	OnFatal FatalPolicy
}

// Config configures an Orchestrator. Zero values get defaults.
type Config struct {
	Policy Policy
	Logger *zap.Logger
	Meter  metric.Meter
	Tracer trace.Tracer
}

// Orchestrator runs completion requests against a backend chain.
// It holds no per-run state and is safe to share between goroutines.
type Orchestrator struct {
	policy    Policy
	logger    *zap.Logger
	tracer    trace.Tracer
	telemetry *telemetry
}

// New creates an Orchestrator.
func New(cfg Config) (o *Orchestrator, err error) {
	if cfg.Policy.MaxAttempts <= 0 {
		cfg.Policy.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Policy.BaseDelay <= 0 {
		cfg.Policy.BaseDelay = DefaultBaseDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Meter == nil {
		cfg.Meter = noop.NewMeterProvider().Meter(instrumentationName)
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(instrumentationName)
	}

	var tel *telemetry
	tel, err = newTelemetry(cfg.Meter)
	if err != nil {
		return o, err
	}

	o = &Orchestrator{
		policy:    cfg.Policy,
		logger:    cfg.Logger,
		tracer:    cfg.Tracer,
		telemetry: tel,
	}
	return o, err
}

// Policy returns the effective policy after defaults.
func (o *Orchestrator) Policy() (policy Policy) {
	policy = o.policy
	return policy
}

// Run tries each backend of chain in order and returns the first non-blank
// completion. On failure the error is always an *AllFailedError.
func (o *Orchestrator) Run(ctx context.Context, chain Chain, prompt string, invoker Invoker) (result Result, err error) {
	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run_id", runID))

	ctx, span := o.tracer.Start(ctx, "completion.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("chain.length", len(chain)),
	))
	defer span.End()

	r := run{o: o, logger: logger, invoker: invoker, prompt: prompt}
	result, err = r.execute(ctx, chain)

	span.SetAttributes(attribute.Int("attempts", len(r.attempts)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.telemetry.recordRun(ctx, "failed")
		logger.Warn("completion failed", zap.Int("attempts", len(r.attempts)), zap.Error(err))
		return result, err
	}

	span.SetAttributes(attribute.String("backend", string(result.Backend)))
	o.telemetry.recordRun(ctx, "success")
	logger.Info("completion succeeded",
		zap.String("backend", string(result.Backend)),
		zap.Int("attempts", len(r.attempts)),
	)
	return result, err
}

// run is the state of a single Run call.
type run struct {
	o        *Orchestrator
	logger   *zap.Logger
	invoker  Invoker
	prompt   string
	attempts []Attempt
	lastKind FailureKind
	lastErr  error
}

// errSkipBackend signals the backend loop to move on to the next backend.
var errSkipBackend = errors.New("skip backend")

func (r *run) execute(ctx context.Context, chain Chain) (result Result, err error) {
	if len(chain) == 0 {
		err = r.fail(Fatal, ErrNoBackends)
		return result, err
	}

	for _, backend := range chain {
		var text string
		text, err = r.tryBackend(ctx, backend)
		if err == nil {
			result = Result{Text: text, Backend: backend, Attempts: r.attempts}
			return result, err
		}
		if !errors.Is(err, errSkipBackend) {
			return result, err
		}
	}

	err = r.fail(r.lastKind, r.lastErr)
	return result, err
}

// tryBackend returns the completion text, errSkipBackend to fail over, or a
// terminal *AllFailedError.
func (r *run) tryBackend(ctx context.Context, backend BackendID) (text string, err error) {
	for n := 1; n <= r.o.policy.MaxAttempts; n++ {
		err = ctx.Err()
		if err != nil {
			err = r.fail(Fatal, err)
			return text, err
		}

		start := time.Now()
		var callErr error
		text, callErr = r.invoker.Invoke(ctx, backend, r.prompt)
		attempt := Attempt{Backend: backend, Number: n, Elapsed: time.Since(start)}

		if callErr == nil && strings.TrimSpace(text) != "" {
			attempt.Success = true
			r.record(ctx, attempt)
			return text, err
		}

		if callErr == nil {
			callErr = errors.Wrapf(ErrEmptyResult, "backend %s", backend)
		}
		attempt.Kind = Classify(callErr)
		attempt.Err = callErr
		r.record(ctx, attempt)
		r.lastKind, r.lastErr = attempt.Kind, callErr
		text = ""

		switch attempt.Kind {
		case Transient:
			if n == r.o.policy.MaxAttempts {
				err = errSkipBackend
				return text, err
			}
			err = r.backoff(ctx, backend, n)
			if err != nil {
				return text, err
			}
		case RateLimited, EmptyResult:
			err = errSkipBackend
			return text, err
		default:
			if r.o.policy.OnFatal == FatalSkip {
				err = errSkipBackend
				return text, err
			}
			err = r.fail(Fatal, callErr)
			return text, err
		}
	}

	err = errSkipBackend
	return text, err
}

// backoff waits attempt × BaseDelay, or returns early when ctx is done.
func (r *run) backoff(ctx context.Context, backend BackendID, attempt int) (err error) {
	delay := r.o.policy.BaseDelay * time.Duration(attempt)
	r.logger.Debug("backing off before retry",
		zap.String("backend", string(backend)),
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err = r.fail(Fatal, ctx.Err())
	case <-timer.C:
	}
	return err
}

func (r *run) record(ctx context.Context, a Attempt) {
	r.attempts = append(r.attempts, a)
	r.o.telemetry.recordAttempt(ctx, a)

	fields := []zap.Field{
		zap.String("backend", string(a.Backend)),
		zap.Int("attempt", a.Number),
		zap.String("outcome", a.Outcome()),
		zap.Duration("elapsed", a.Elapsed),
	}
	if a.Err != nil {
		fields = append(fields, zap.Error(a.Err))
	}
	r.logger.Info("completion attempt", fields...)
}

func (r *run) fail(kind FailureKind, cause error) (err error) {
	err = &AllFailedError{Kind: kind, Cause: cause, Attempts: r.attempts}
	return err
}
