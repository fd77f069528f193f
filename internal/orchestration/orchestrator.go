package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/matcalc/internal/engine"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per multiplier.
const ProgressBufferMultiplier = 5

// ExecuteMultiplications runs every multiplier on lhs·rhs concurrently and
// returns their results in input order. Progress is forwarded to reporter,
// which has finished displaying when this returns.
func ExecuteMultiplications(ctx context.Context, multipliers []engine.Multiplier, lhs, rhs *matrix.Matrix, opts engine.Options, reporter ProgressReporter, out io.Writer) []MultiplicationResult {
	results := make([]MultiplicationResult, len(multipliers))
	progressChan := make(chan progress.ProgressUpdate, len(multipliers)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(multipliers), out)

	var g errgroup.Group
	for i, m := range multipliers {
		g.Go(func() error {
			start := time.Now()
			product, err := m.Multiply(ctx, progressChan, i, lhs, rhs, opts)
			results[i] = MultiplicationResult{
				Name: m.Name(), Product: product, Duration: time.Since(start), Err: err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts results (successes first, fastest first),
// presents the comparison table, checks that every successful product is
// identical and presents the accepted one. It returns the exit code: a
// product mismatch yields apperrors.ExitErrorMismatch.
func AnalyzeComparisonResults(results []MultiplicationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *MultiplicationResult
	var firstError error
	var firstErrorDuration time.Duration
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
				firstErrorDuration = results[i].Duration
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	if len(results) > 1 {
		presenter.PresentComparisonTable(results, out)
	}

	if firstValid == nil {
		if len(results) > 1 {
			fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the multiplication.\n")
		}
		return errHandler.HandleError(firstError, firstErrorDuration, out)
	}

	for _, res := range results {
		if res.Err == nil && !res.Product.Equal(firstValid.Product) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The strategies produced different products.\n")
			return apperrors.ExitErrorMismatch
		}
	}

	if len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid products are identical.\n")
	}
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}
