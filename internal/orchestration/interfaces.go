package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
)

// MultiplicationResult is the outcome of one strategy's run.
type MultiplicationResult struct {
	// Name is the display name of the strategy.
	Name string
	// Product is nil if an error occurred.
	Product  *matrix.Matrix
	Duration time.Duration
	Err      error
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	Dim       int
	Verbose   bool
	ShowValue bool
	Quiet     bool
}

// ProgressReporter displays progress updates while multipliers run.
type ProgressReporter interface {
	// DisplayProgress consumes progressChan until it is closed, then calls
	// wg.Done. It runs on its own goroutine.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer) {
	f(wg, progressChan, numMultipliers, out)
}

// NullProgressReporter drains progress updates without displaying them.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentComparisonTable shows one line per strategy.
	PresentComparisonTable(results []MultiplicationResult, out io.Writer)
	// PresentResult shows the accepted product.
	PresentResult(result MultiplicationResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports a failure and returns the process exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
