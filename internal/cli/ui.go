//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
	"github.com/agbru/matcalc/internal/ui"
)

const (
	// PreviewEdge is the number of leading rows and columns shown when a
	// product is too large to print in full.
	PreviewEdge = 4
	// ProgressRefreshRate is the spinner and progress bar refresh interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the progress bar width in cells.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner shown during a run.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[14], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with the averaged progress bar and the
// product rows computed by all running multipliers until progressChan is
// closed.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numMultipliers)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(agg.Snapshot()))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				final := agg.Snapshot()
				final.ETA = 0
				s.UpdateSuffix(progressSuffix(final))
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg.Snapshot()))
		}
	}
}

// progressSuffix renders the text shown after the spinner.
func progressSuffix(p orchestration.AggregatedProgress) string {
	suffix := " " + format.FormatProgressBarWithETA(p.AverageProgress, p.ETA, ProgressBarWidth)
	if rows := format.FormatRowProgress(p.RowsDone, p.TotalRows, p.RowsPerSecond); rows != "" {
		suffix += "  " + rows
	}
	return suffix
}

// DisplayResult prints the summary of an accepted product: its dimension,
// the multiplication time, checksum and trace and, when showValue is set,
// the matrix itself (only its top-left corner unless verbose).
func DisplayResult(product *matrix.Matrix, duration time.Duration, verbose, showValue bool, out io.Writer) {
	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s--- Result ---%s\n", t.Bold, t.Reset)
	fmt.Fprintf(out, "Dimension:           %s%d x %d%s\n", t.Primary, product.Dim(), product.Dim(), t.Reset)
	fmt.Fprintf(out, "Multiplication time: %s%s%s\n", t.Warning, format.FormatExecutionDuration(duration), t.Reset)
	fmt.Fprintf(out, "Checksum:            %s%s%s\n", t.Info, format.FormatInt(product.Checksum()), t.Reset)
	fmt.Fprintf(out, "Trace:               %s%d%s\n", t.Info, product.Trace(), t.Reset)

	if !showValue {
		return
	}
	fmt.Fprintf(out, "\nProduct:\n%s", FormatMatrix(product, verbose))
	if !verbose && product.Dim() > 2*PreviewEdge {
		fmt.Fprintf(out, "%s(truncated to %dx%d) Tip: use -v to print the full product or -o to save it.%s\n",
			t.Secondary, PreviewEdge, PreviewEdge, t.Reset)
	}
}

// FormatMatrix renders m as right-aligned columns. Unless full is set, a
// matrix larger than 2*PreviewEdge is cut to its top-left PreviewEdge
// corner with ellipses marking the omitted rows and columns.
func FormatMatrix(m *matrix.Matrix, full bool) string {
	dim := m.Dim()
	shown := dim
	truncated := !full && dim > 2*PreviewEdge
	if truncated {
		shown = PreviewEdge
	}

	cells := make([][]string, shown)
	width := 1
	for i := 0; i < shown; i++ {
		row, _ := m.Row(i)
		cells[i] = make([]string, shown)
		for j := 0; j < shown; j++ {
			cells[i][j] = strconv.FormatInt(int64(row[j]), 10)
			width = max(width, len(cells[i][j]))
		}
	}

	var b strings.Builder
	for _, row := range cells {
		for j, c := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%*s", width, c)
		}
		if truncated {
			b.WriteString(" …")
		}
		b.WriteByte('\n')
	}
	if truncated {
		b.WriteString(fmt.Sprintf("%*s\n", width, "⋮"))
	}
	return b.String()
}
