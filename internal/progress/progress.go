// Package progress defines the progress types shared by the multiplication
// engine, the orchestrator and the presentation layers.
package progress

import "sync/atomic"

// ProgressUpdate is a progress notification from one running multiplier.
type ProgressUpdate struct {
	// CalculatorIndex identifies the multiplier within the current run.
	CalculatorIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
	// RowsDone and TotalRows count product rows. Both are zero when the
	// sender only reports fractions.
	RowsDone  int
	TotalRows int
}

// ProgressCallback receives the completed fraction of a multiplication.
// Implementations must be safe for concurrent use: the parallel strategy
// reports from its row tasks.
type ProgressCallback func(progress float64)

// NewChannelCallback returns a callback that forwards updates to ch tagged
// with index. Sends never block; when the channel is full the update is
// dropped, except the final 1.0 which is always delivered.
func NewChannelCallback(ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return func(float64) {}
	}
	return func(p float64) {
		update := ProgressUpdate{CalculatorIndex: index, Value: p}
		if p >= 1.0 {
			ch <- update
			return
		}
		select {
		case ch <- update:
		default:
		}
	}
}

// RowCallback receives the number of completed product rows out of total.
// Like ProgressCallback it must be safe for concurrent use.
type RowCallback func(done, total int)

// NewRowChannelCallback is the row-counting form of NewChannelCallback:
// updates carry the row counts alongside the fraction they imply.
func NewRowChannelCallback(ch chan<- ProgressUpdate, index int) RowCallback {
	if ch == nil {
		return func(int, int) {}
	}
	return func(done, total int) {
		update := ProgressUpdate{CalculatorIndex: index, Value: 1.0, RowsDone: done, TotalRows: total}
		if done < total {
			update.Value = float64(done) / float64(total)
			select {
			case ch <- update:
			default:
			}
			return
		}
		ch <- update
	}
}

// RowTracker counts completed rows and throttles reports to roughly one
// per percent.
type RowTracker struct {
	total    int64
	step     int64
	done     atomic.Int64
	callback RowCallback
}

// NewRowTracker creates a tracker for total rows reporting to cb.
// A nil callback yields a tracker that only counts.
func NewRowTracker(total int, cb RowCallback) *RowTracker {
	step := int64(total) / 100
	if step < 1 {
		step = 1
	}
	return &RowTracker{total: int64(total), step: step, callback: cb}
}

// Add records n more completed rows. Safe for concurrent use.
func (t *RowTracker) Add(n int) {
	before := t.done.Add(int64(n)) - int64(n)
	after := before + int64(n)
	if t.callback == nil || t.total == 0 {
		return
	}
	// Report when this call crossed a step boundary; the final report
	// comes from Finish.
	if after < t.total && before/t.step != after/t.step {
		t.callback(int(after), int(t.total))
	}
}

// Done returns the number of completed rows so far.
func (t *RowTracker) Done() int { return int(t.done.Load()) }

// Finish reports completion.
func (t *RowTracker) Finish() {
	if t.callback != nil {
		t.callback(int(t.total), int(t.total))
	}
}
