package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/memory"
	"github.com/agbru/matcalc/internal/metrics"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/tui"
)

// runCalculate orchestrates the execution of the multiplication command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	multipliers := orchestration.GetMultipliersToRun(a.Config.Strategy, a.Factory)
	if len(multipliers) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no multiplier registered for strategy %q\n", a.Config.Strategy)
		return apperrors.ExitErrorConfig
	}

	// Random operands are checked against the budget before allocation.
	if !a.Config.UsesFiles() {
		if code := a.validateMemoryBudget(a.Config.Dim, len(multipliers), out); code != apperrors.ExitSuccess {
			return code
		}
	}

	lhs, rhs, err := a.loadOperands()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	if a.Config.UsesFiles() {
		a.Config.Dim = lhs.Dim()
		if code := a.validateMemoryBudget(a.Config.Dim, len(multipliers), out); code != apperrors.ExitSuccess {
			return code
		}
	}
	a.Config = config.ApplyAdaptiveDefaults(a.Config)

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	est := memory.EstimateMemoryUsage(a.Config.Dim, len(multipliers))
	gc := memory.NewGCController(a.Config.GCMode, est.Total)
	gc.SetLogger(a.logger)
	gc.Begin()
	defer gc.End()

	if a.Config.TUI {
		return tui.Run(ctx, multipliers, lhs, rhs, a.Config, Version)
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(multipliers, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	results := orchestration.ExecuteMultiplications(ctx, multipliers, lhs, rhs, a.Config.ToEngineOptions(), progressReporter, progressOut)
	delta := collector.Snapshot().Since(before)

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ShowValue:  a.Config.ShowValue,
	}
	exitCode := a.analyzeResultsWithOutput(results, outputCfg, out)

	if a.Config.Verbose && !a.Config.Quiet {
		cli.DisplayMemoryStats(delta, out)
	}
	return exitCode
}

// validateMemoryBudget checks that a dim×dim run of n strategies fits in
// the available memory and, when set, the configured limit.
func (a *Application) validateMemoryBudget(dim, n int, out io.Writer) int {
	limit, err := memory.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Invalid --memory-limit: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	est := memory.EstimateMemoryUsage(dim, n)
	if err := memory.CheckBudget(est.Total, limit, a.availableMemory()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	if limit > 0 && !a.Config.Quiet && !a.Config.TUI {
		fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n", format.FormatBytes(est.Total), a.Config.MemoryLimit)
	}
	return apperrors.ExitSuccess
}

// loadOperands reads both operand files, or draws two random operands from
// one seeded source.
func (a *Application) loadOperands() (lhs, rhs *matrix.Matrix, err error) {
	if a.Config.UsesFiles() {
		if lhs, err = readMatrixFile(a.Config.LhsFile); err != nil {
			return nil, nil, err
		}
		if rhs, err = readMatrixFile(a.Config.RhsFile); err != nil {
			return nil, nil, err
		}
		if lhs.Dim() != rhs.Dim() {
			return nil, nil, &apperrors.DimensionMismatchError{Lhs: lhs.Dim(), Rhs: rhs.Dim()}
		}
		return lhs, rhs, nil
	}

	seed := a.Config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		a.Config.Seed = seed
	}
	a.logger.Debug().Uint64("seed", seed).Int("dim", a.Config.Dim).Msg("generating operands")
	src := matrix.NewSeededSource(seed)
	if lhs, err = matrix.Random(a.Config.Dim, int32(a.Config.Cap), src); err != nil {
		return nil, nil, err
	}
	if rhs, err = matrix.Random(a.Config.Dim, int32(a.Config.Cap), src); err != nil {
		return nil, nil, err
	}
	return lhs, rhs, nil
}

func readMatrixFile(path string) (*matrix.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "opening operand")
	}
	defer f.Close()
	m, err := matrix.Read(f)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	return m, nil
}

// quietPresenter prints only the accepted product's checksum.
type quietPresenter struct {
	out io.Writer
}

func (quietPresenter) PresentComparisonTable([]orchestration.MultiplicationResult, io.Writer) {}

func (p quietPresenter) PresentResult(result orchestration.MultiplicationResult, _ orchestration.PresentationOptions, _ io.Writer) {
	cli.DisplayQuietResult(p.out, result.Product)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.MultiplicationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	presOpts := orchestration.PresentationOptions{
		Dim:       a.Config.Dim,
		Verbose:   a.Config.Verbose,
		ShowValue: a.Config.ShowValue,
		Quiet:     a.Config.Quiet,
	}

	var exitCode int
	if outputCfg.Quiet {
		// Status lines and failures go to the error stream.
		exitCode = orchestration.AnalyzeComparisonResults(results, presOpts, quietPresenter{out: out}, cli.CLIResultPresenter{}, a.ErrWriter)
	} else {
		exitCode = orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	}

	bestResult := findBestResult(results)
	if bestResult == nil || exitCode != apperrors.ExitSuccess || outputCfg.OutputFile == "" {
		return exitCode
	}
	if err := cli.SaveResult(out, bestResult.Product, bestResult.Duration, bestResult.Name, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return exitCode
}

func findBestResult(results []orchestration.MultiplicationResult) *orchestration.MultiplicationResult {
	var bestResult *orchestration.MultiplicationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}
