package engine

import (
	"context"

	"github.com/agbru/matcalc/internal/parallel"
	"github.com/agbru/matcalc/internal/progress"
)

// ParallelMultiplier partitions the output rows into tasks and runs them
// concurrently. Each task owns a disjoint range of rows of the shared result
// buffer and reads both operands without copying or locking. The call
// returns only after every started task has finished.
type ParallelMultiplier struct{}

// Name returns the display name of the strategy.
func (p *ParallelMultiplier) Name() string {
	return "Parallel (row tasks)"
}

// MultiplyCore writes lhs·rhs into dst using one task per opts.RowsPerTask
// rows, at most opts.Workers at a time. Task failures are returned joined;
// tasks that had not started when ctx was cancelled are skipped.
func (p *ParallelMultiplier) MultiplyCore(ctx context.Context, tracker *progress.RowTracker, lhs, rhs, dst []int32, dim int, opts Options) error {
	ranges := parallel.Partition(dim, opts.RowsPerTask)
	return parallel.ForRanges(ctx, ranges, opts.Workers, func(r parallel.RowRange) error {
		for i := r.Start; i < r.End; i++ {
			multiplyRow(lhs, rhs, dst, i, dim)
		}
		tracker.Add(r.Len())
		return nil
	})
}
