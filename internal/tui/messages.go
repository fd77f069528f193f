package tui

import (
	"time"

	"github.com/agbru/matcalc/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	Generation      uint64
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	RowsDone        int
	TotalRows       int
	RowsPerSecond   float64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ComparisonResultsMsg carries the results of every strategy.
type ComparisonResultsMsg struct {
	Generation uint64
	Results    []orchestration.MultiplicationResult
}

// FinalResultMsg carries the accepted product.
type FinalResultMsg struct {
	Generation uint64
	Result     orchestration.MultiplicationResult
	Options    orchestration.PresentationOptions
}

// ErrorMsg reports that no strategy succeeded.
type ErrorMsg struct {
	Generation uint64
	Err        error
	Duration   time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries Go runtime memory statistics.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries system-wide CPU and memory usage.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// CalculationCompleteMsg signals the end of a run.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg signals that the run's context was cancelled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
