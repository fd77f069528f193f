package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
)

const tracerName = "github.com/agbru/matcalc/internal/engine"

// Multiplier is the public interface of a multiplication strategy as seen
// by the orchestration layer.
type Multiplier interface {
	// Multiply returns lhs·rhs. Progress updates tagged with index are sent
	// to progressChan, which may be nil; the final update is 1.0. On error
	// the returned Matrix is always nil.
	Multiply(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, lhs, rhs *matrix.Matrix, opts Options) (*matrix.Matrix, error)

	// Name returns the display name of the strategy.
	Name() string
}

// CoreMultiplier is implemented by the strategies. It computes into a
// caller-allocated buffer; validation and bookkeeping live in Engine.
type CoreMultiplier interface {
	MultiplyCore(ctx context.Context, tracker *progress.RowTracker, lhs, rhs, dst []int32, dim int, opts Options) error
	Name() string
}

// Recorder receives the outcome of every multiplication.
type Recorder interface {
	ObserveMultiplication(strategy string, dim int, duration time.Duration, err error)
}

var pkgLogger = zerolog.Nop()

// SetLogger sets the logger used by engines created without WithLogger.
func SetLogger(l zerolog.Logger) {
	pkgLogger = l
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = &l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) { e.recorder = r }
}

// WithTracer overrides the tracer, which defaults to the global provider's.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) { e.tracer = t }
}

// Engine adapts a strategy core to the Multiplier interface.
type Engine struct {
	core     CoreMultiplier
	logger   *zerolog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// NewMultiplier wraps core in an Engine.
func NewMultiplier(core CoreMultiplier, opts ...EngineOption) Multiplier {
	if core == nil {
		panic("engine: nil core multiplier")
	}
	e := &Engine{core: core}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// Name returns the display name of the wrapped strategy.
func (e *Engine) Name() string {
	return e.core.Name()
}

func (e *Engine) log() *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return &pkgLogger
}

// Multiply checks the operands, allocates the result and runs the strategy.
// Operands of different dimensions yield *apperrors.DimensionMismatchError.
// Strategy failures, including cancellation, are returned wrapped in
// apperrors.CalculationError.
func (e *Engine) Multiply(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, lhs, rhs *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
	if lhs == nil || rhs == nil {
		return nil, apperrors.ValidationError{Field: "operand", Message: "matrix must not be nil"}
	}
	name := e.core.Name()
	if lhs.Dim() != rhs.Dim() {
		err := &apperrors.DimensionMismatchError{Lhs: lhs.Dim(), Rhs: rhs.Dim()}
		e.log().Debug().Str("strategy", name).Err(err).Msg("multiplication rejected")
		e.observe(name, lhs.Dim(), 0, err)
		return nil, err
	}

	dim := lhs.Dim()
	opts = normalizeOptions(opts)

	ctx, span := e.tracer.Start(ctx, "engine.Multiply", trace.WithAttributes(
		attribute.Int("matrix.dim", dim),
		attribute.String("matrix.strategy", name),
		attribute.Int("parallel.workers", opts.Workers),
		attribute.Int("parallel.rows_per_task", opts.RowsPerTask),
	))
	defer span.End()

	e.log().Debug().
		Str("strategy", name).
		Int("dim", dim).
		Int("workers", opts.Workers).
		Int("rows_per_task", opts.RowsPerTask).
		Msg("multiplication started")

	start := time.Now()
	dst := make([]int32, dim*dim)
	tracker := progress.NewRowTracker(dim, progress.NewRowChannelCallback(progressChan, index))
	err := e.core.MultiplyCore(ctx, tracker, lhs.Buffer(), rhs.Buffer(), dst, dim, opts)
	duration := time.Since(start)

	if err != nil {
		var calcErr apperrors.CalculationError
		if !errors.As(err, &calcErr) {
			err = apperrors.CalculationError{Cause: err}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.log().Warn().
			Str("strategy", name).
			Int("dim", dim).
			Int("rows_done", tracker.Done()).
			Dur("duration", duration).
			Err(err).
			Msg("multiplication failed")
		e.observe(name, dim, duration, err)
		return nil, err
	}

	tracker.Finish()
	span.SetStatus(codes.Ok, "")
	e.log().Debug().
		Str("strategy", name).
		Int("dim", dim).
		Dur("duration", duration).
		Msg("multiplication completed")
	e.observe(name, dim, duration, nil)
	return matrix.From(dim, dst), nil
}

func (e *Engine) observe(name string, dim int, d time.Duration, err error) {
	if e.recorder != nil {
		e.recorder.ObserveMultiplication(name, dim, d, err)
	}
}

// Multiply computes lhs·rhs with the given strategy from the global factory
// and default options.
func Multiply(ctx context.Context, strategy Strategy, lhs, rhs *matrix.Matrix) (*matrix.Matrix, error) {
	m, err := GlobalFactory().Get(strategy.String())
	if err != nil {
		return nil, err
	}
	return m.Multiply(ctx, nil, 0, lhs, rhs, Options{})
}
