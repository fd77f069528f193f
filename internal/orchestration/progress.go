package orchestration

import (
	"time"

	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/progress"
)

// ProgressAggregator folds the updates of concurrent multipliers into one
// view: the mean completed fraction, an ETA, and the product rows computed
// so far across all strategies. A single display goroutine owns it.
type ProgressAggregator struct {
	eta       *format.ProgressWithETA
	rowsDone  []int
	totalRows []int
	last      []float64
}

// NewProgressAggregator returns an aggregator for n multipliers, or nil
// when n <= 0.
func NewProgressAggregator(n int) *ProgressAggregator {
	if n <= 0 {
		return nil
	}
	return &ProgressAggregator{
		eta:       format.NewProgressWithETA(n),
		rowsDone:  make([]int, n),
		totalRows: make([]int, n),
		last:      make([]float64, n),
	}
}

// AggregatedProgress is the combined view after an update.
type AggregatedProgress struct {
	// Index is the multiplier that sent the update, -1 for a snapshot.
	Index int
	// Value is that multiplier's own completed fraction.
	Value float64
	// AverageProgress is the mean fraction over all multipliers.
	AverageProgress float64
	ETA             time.Duration
	// RowsDone and TotalRows sum the row counts of the multipliers that
	// report them. TotalRows is zero until one does.
	RowsDone  int
	TotalRows int
	// RowsPerSecond is the overall row throughput since the aggregator
	// was created.
	RowsPerSecond float64
	// Finished counts multipliers that reported completion.
	Finished int
}

// Update applies one progress update. Updates with an out-of-range index
// are ignored and yield a snapshot. A fraction-only update from a
// multiplier whose row total is known is converted into rows.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	i := update.CalculatorIndex
	if i < 0 || i >= len(a.last) {
		return a.Snapshot()
	}
	a.eta.UpdateWithETA(i, update.Value)
	a.last[i] = update.Value
	switch {
	case update.TotalRows > 0:
		a.totalRows[i] = update.TotalRows
		a.rowsDone[i] = min(update.RowsDone, update.TotalRows)
	case a.totalRows[i] > 0:
		a.rowsDone[i] = int(min(max(update.Value, 0), 1) * float64(a.totalRows[i]))
	}
	view := a.Snapshot()
	view.Index = i
	view.Value = update.Value
	return view
}

// Snapshot returns the current view without applying an update.
func (a *ProgressAggregator) Snapshot() AggregatedProgress {
	view := AggregatedProgress{
		Index:           -1,
		AverageProgress: a.eta.CalculateAverage(),
		ETA:             a.eta.GetETA(),
	}
	for i := range a.last {
		view.RowsDone += a.rowsDone[i]
		view.TotalRows += a.totalRows[i]
		if a.last[i] >= 1 {
			view.Finished++
		}
	}
	if elapsed := a.eta.Elapsed().Seconds(); elapsed > 0 {
		view.RowsPerSecond = float64(view.RowsDone) / elapsed
	}
	return view
}

// DrainChannel discards updates until the channel is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
