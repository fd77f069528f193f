package engine

import (
	"context"

	"github.com/agbru/matcalc/internal/progress"
)

// SequentialMultiplier computes the product on the calling goroutine, one
// output row at a time.
type SequentialMultiplier struct{}

// Name returns the display name of the strategy.
func (s *SequentialMultiplier) Name() string {
	return "Sequential (single goroutine)"
}

// MultiplyCore writes lhs·rhs into dst. The context is checked between rows.
func (s *SequentialMultiplier) MultiplyCore(ctx context.Context, tracker *progress.RowTracker, lhs, rhs, dst []int32, dim int, _ Options) error {
	for i := 0; i < dim; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		multiplyRow(lhs, rhs, dst, i, dim)
		tracker.Add(1)
	}
	return nil
}
