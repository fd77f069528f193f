package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
)

// programRef lets goroutines outside the bubbletea loop send messages.
// Models are copied on every Update, so they share this pointer.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the target program.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program, if one is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter forwards aggregated progress as ProgressMsg.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress implements orchestration.ProgressReporter.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numMultipliers)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Generation:      t.generation,
			Index:           ap.Index,
			Value:           ap.Value,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
			RowsDone:        ap.RowsDone,
			TotalRows:       ap.TotalRows,
			RowsPerSecond:   ap.RowsPerSecond,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.generation})
}

// TUIResultPresenter sends results to the dashboard instead of writing
// them out.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable implements orchestration.ResultPresenter.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.MultiplicationResult, _ io.Writer) {
	t.ref.Send(ComparisonResultsMsg{Generation: t.generation, Results: append([]orchestration.MultiplicationResult(nil), results...)})
}

// PresentResult implements orchestration.ResultPresenter.
func (t *TUIResultPresenter) PresentResult(result orchestration.MultiplicationResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Generation: t.generation, Result: result, Options: opts})
}

// FormatDuration implements orchestration.DurationFormatter.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError reports err to the dashboard and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Generation: t.generation, Err: err, Duration: duration})
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}
