// This file derives the tuning candidates benchmarked by calibration from
// the hardware and the probe dimension.

package calibration

import (
	"runtime"
	"slices"

	"github.com/agbru/matcalc/internal/config"
)

// Probe dimensions used to benchmark candidates.
const (
	DefaultProbeDim = 256
	QuickProbeDim   = 128
)

// ─────────────────────────────────────────────────────────────────────────────
// Worker Candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateWorkerCandidates returns the worker limits to benchmark: powers
// of two up to the CPU count, the CPU count itself and twice the CPU count
// for oversubscription. The result is sorted and free of duplicates.
func GenerateWorkerCandidates() []int {
	return workerCandidates(runtime.NumCPU(), false)
}

// GenerateQuickWorkerCandidates returns a reduced set for auto-calibration
// at startup.
func GenerateQuickWorkerCandidates() []int {
	return workerCandidates(runtime.NumCPU(), true)
}

func workerCandidates(numCPU int, quick bool) []int {
	if numCPU <= 1 {
		return []int{1}
	}
	var candidates []int
	if quick {
		candidates = []int{max(numCPU/2, 1), numCPU, 2 * numCPU}
	} else {
		for w := 1; w < numCPU; w *= 2 {
			candidates = append(candidates, w)
		}
		candidates = append(candidates, numCPU, 2*numCPU)
	}
	slices.Sort(candidates)
	return slices.Compact(candidates)
}

// ─────────────────────────────────────────────────────────────────────────────
// Rows-per-task Candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateRowsPerTaskCandidates returns the task sizes to benchmark for a
// probe of dimension dim: powers of two from one row up to a quarter of the
// rows, plus the adaptive estimate.
func GenerateRowsPerTaskCandidates(dim int) []int {
	return rowsCandidates(dim, runtime.NumCPU(), false)
}

// GenerateQuickRowsPerTaskCandidates returns a reduced set for
// auto-calibration at startup.
func GenerateQuickRowsPerTaskCandidates(dim int) []int {
	return rowsCandidates(dim, runtime.NumCPU(), true)
}

func rowsCandidates(dim, numCPU int, quick bool) []int {
	if dim <= 1 {
		return []int{1}
	}
	limit := max(dim/4, 1)
	step := 2
	if quick {
		step = 4
	}
	var candidates []int
	for r := 1; r <= limit; r *= step {
		candidates = append(candidates, r)
	}
	candidates = append(candidates, config.EstimateRowsPerTask(dim, numCPU))
	slices.Sort(candidates)
	return slices.Compact(candidates)
}
