// Package calibration benchmarks the parallel strategy across worker limits
// and task sizes, and persists the fastest combination as a profile that
// later runs pick up.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/engine"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
)

// probeCap bounds the elements of the random probe operands.
const probeCap = 1000

// probeSeed keeps the probe operands identical across runs.
const probeSeed = 0x6d617463

var logger = zerolog.Nop()

// SetLogger sets the logger used for calibration diagnostics.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "calibration").Logger()
}

// Options selects what a calibration run benchmarks.
type Options struct {
	ProbeDim    int
	Workers     []int
	RowsPerTask []int
	// Repeats is the number of timed runs per candidate; the fastest counts.
	Repeats int
}

// FullOptions returns the candidate grid of an explicit --calibrate run.
func FullOptions() Options {
	return Options{
		ProbeDim:    DefaultProbeDim,
		Workers:     GenerateWorkerCandidates(),
		RowsPerTask: GenerateRowsPerTaskCandidates(DefaultProbeDim),
		Repeats:     3,
	}
}

// QuickOptions returns the reduced grid used by --auto-calibrate.
func QuickOptions() Options {
	return Options{
		ProbeDim:    QuickProbeDim,
		Workers:     GenerateQuickWorkerCandidates(),
		RowsPerTask: GenerateQuickRowsPerTaskCandidates(QuickProbeDim),
		Repeats:     1,
	}
}

// Result is the measurement of one candidate.
type Result struct {
	Workers     int
	RowsPerTask int
	Duration    time.Duration
	Err         error
}

// Calibrate multiplies random probe operands with candidate for every
// combination in opts and checks each product against reference. It returns
// every measurement and the fastest successful one. An error is returned
// when ctx ends or no candidate succeeds.
func Calibrate(ctx context.Context, candidate, reference engine.Multiplier, opts Options) ([]Result, Result, error) {
	if opts.Repeats < 1 {
		opts.Repeats = 1
	}
	src := matrix.NewSeededSource(probeSeed)
	lhs, err := matrix.Random(opts.ProbeDim, probeCap, src)
	if err != nil {
		return nil, Result{}, err
	}
	rhs, err := matrix.Random(opts.ProbeDim, probeCap, src)
	if err != nil {
		return nil, Result{}, err
	}
	want, err := reference.Multiply(ctx, nil, 0, lhs, rhs, engine.Options{})
	if err != nil {
		return nil, Result{}, fmt.Errorf("computing reference product: %w", err)
	}

	results := make([]Result, 0, len(opts.Workers)*len(opts.RowsPerTask))
	best := Result{Duration: -1}
	for _, workers := range opts.Workers {
		for _, rows := range opts.RowsPerTask {
			if err := ctx.Err(); err != nil {
				return results, Result{}, err
			}
			res := measure(ctx, candidate, lhs, rhs, want, workers, rows, opts.Repeats)
			logger.Debug().Int("workers", workers).Int("rows_per_task", rows).
				Dur("duration", res.Duration).Err(res.Err).Msg("candidate measured")
			results = append(results, res)
			if res.Err == nil && (best.Duration < 0 || res.Duration < best.Duration) {
				best = res
			}
		}
	}
	if best.Duration < 0 {
		return results, Result{}, apperrors.CalculationError{Cause: fmt.Errorf("no calibration candidate succeeded")}
	}
	return results, best, nil
}

func measure(ctx context.Context, m engine.Multiplier, lhs, rhs, want *matrix.Matrix, workers, rows, repeats int) Result {
	res := Result{Workers: workers, RowsPerTask: rows, Duration: -1}
	opts := engine.Options{Workers: workers, RowsPerTask: rows}
	for range repeats {
		start := time.Now()
		got, err := m.Multiply(ctx, nil, 0, lhs, rhs, opts)
		elapsed := time.Since(start)
		if err != nil {
			return Result{Workers: workers, RowsPerTask: rows, Err: err}
		}
		if !got.Equal(want) {
			return Result{Workers: workers, RowsPerTask: rows, Err: fmt.Errorf("product differs from the reference")}
		}
		if res.Duration < 0 || elapsed < res.Duration {
			res.Duration = elapsed
		}
	}
	return res
}

func strategies(multipliers map[string]engine.Multiplier) (candidate, reference engine.Multiplier, err error) {
	candidate, ok := multipliers[engine.StrategyParallel.String()]
	if !ok {
		return nil, nil, apperrors.NewConfigError("calibration needs the %s strategy", engine.StrategyParallel)
	}
	reference, ok = multipliers[engine.StrategySequential.String()]
	if !ok {
		reference = candidate
	}
	return candidate, reference, nil
}

func newProfile(opts Options, best Result, elapsed time.Duration) *CalibrationProfile {
	p := NewProfile()
	p.ProbeDim = opts.ProbeDim
	p.OptimalWorkers = best.Workers
	p.OptimalRowsPerTask = best.RowsPerTask
	p.CalibrationTime = elapsed.Round(time.Millisecond).String()
	return p
}

// RunCalibration runs the full candidate grid, prints the measurements and
// saves the fastest combination to profilePath (the default path when
// empty). It returns the process exit code.
func RunCalibration(ctx context.Context, out io.Writer, multipliers map[string]engine.Multiplier, profilePath string) int {
	return runCalibration(ctx, out, multipliers, profilePath, FullOptions())
}

func runCalibration(ctx context.Context, out io.Writer, multipliers map[string]engine.Multiplier, profilePath string, opts Options) int {
	candidate, reference, err := strategies(multipliers)
	if err != nil {
		fmt.Fprintf(out, "Calibration failed: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	fmt.Fprintf(out, "--- Calibration Mode: %s strategy on %dx%d probes (%d combinations) ---\n",
		candidate.Name(), opts.ProbeDim, opts.ProbeDim, len(opts.Workers)*len(opts.RowsPerTask))

	start := time.Now()
	results, best, err := Calibrate(ctx, candidate, reference, opts)
	if err != nil {
		if apperrors.IsContextError(err) {
			fmt.Fprintf(out, "Calibration interrupted: %v\n", err)
			return apperrors.ExitErrorCanceled
		}
		printCalibrationResults(out, results, Result{Duration: -1})
		fmt.Fprintf(out, "Calibration failed: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	printCalibrationResults(out, results, best)
	printCalibrationOutput(best, out)

	path := resolveProfilePath(profilePath)
	if err := newProfile(opts, best, time.Since(start)).SaveProfile(path); err != nil {
		fmt.Fprintf(out, "Could not save calibration profile: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "Profile saved to %s\n", path)
	return apperrors.ExitSuccess
}

// AutoCalibrate runs the quick grid and applies the winner to the tuning
// values cfg leaves at zero. The profile is saved best-effort. It reports
// whether cfg was updated; failures keep cfg unchanged.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, multipliers map[string]engine.Multiplier) (config.AppConfig, bool) {
	return autoCalibrate(ctx, cfg, out, multipliers, QuickOptions())
}

func autoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, multipliers map[string]engine.Multiplier, opts Options) (config.AppConfig, bool) {
	candidate, reference, err := strategies(multipliers)
	if err != nil {
		logger.Warn().Err(err).Msg("auto-calibration skipped")
		return cfg, false
	}
	start := time.Now()
	_, best, err := Calibrate(ctx, candidate, reference, opts)
	if err != nil {
		logger.Warn().Err(err).Msg("auto-calibration failed")
		return cfg, false
	}

	p := newProfile(opts, best, time.Since(start))
	if err := p.SaveProfile(resolveProfilePath(cfg.CalibrationProfile)); err != nil {
		logger.Warn().Err(err).Msg("could not save calibration profile")
	}
	if !cfg.Quiet {
		printCalibrationOutput(best, out)
	}
	return applyProfile(cfg, p), true
}
