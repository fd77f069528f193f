package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/metrics"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
	"github.com/agbru/matcalc/internal/ui"
)

// CLIProgressReporter displays progress with a spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numMultipliers, out)
}

// CLIResultPresenter renders results as colorized terminal text.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

const (
	strategyHeader = "Strategy"
	durationHeader = "Duration"
)

// PresentComparisonTable prints one aligned row per strategy. Padding is
// computed on the plain text so color codes do not skew the columns.
func (p CLIResultPresenter) PresentComparisonTable(results []orchestration.MultiplicationResult, out io.Writer) {
	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	nameWidth, durationWidth := len(strategyHeader), len(durationHeader)
	durations := make([]string, len(results))
	for i, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durations[i] = p.FormatDuration(res.Duration)
		durationWidth = max(durationWidth, len(durations[i]))
	}

	fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %sStatus%s\n",
		t.Bold, strategyHeader, t.Reset, pad(nameWidth-len(strategyHeader)),
		t.Bold, durationHeader, t.Reset, pad(durationWidth-len(durationHeader)),
		t.Bold, t.Reset)

	for i, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", t.Error, res.Err, t.Reset)
		} else {
			status = fmt.Sprintf("%s✅ Success%s (checksum %d)", t.Success, t.Reset, res.Product.Checksum())
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			t.Primary, res.Name, t.Reset, pad(nameWidth-len(res.Name)),
			t.Warning, durations[i], t.Reset, pad(durationWidth-len(durations[i])),
			status)
	}
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// PresentResult prints the accepted product.
func (CLIResultPresenter) PresentResult(result orchestration.MultiplicationResult, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, result.Product)
		return
	}
	DisplayResult(result.Product, result.Duration, opts.Verbose, opts.ShowValue, out)
}

// FormatDuration formats d for the comparison table.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// HandleError prints err with the active theme and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, ui.GetCurrentTheme().ErrorColors())
}

// DisplayMemoryStats prints the runtime memory activity of a run.
func DisplayMemoryStats(delta metrics.MemoryDelta, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(delta.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(delta.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.GCCycles)
	if delta.PauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(delta.PauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}
