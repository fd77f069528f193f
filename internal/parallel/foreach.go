package parallel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// ForEach calls fn(i) for every i in [0, n) on its own goroutine, with at
// most limit calls in flight (limit <= 0 means unbounded). It returns only
// after every started call has returned.
//
// A failing or panicking call does not stop its siblings; all failures are
// collected and returned together, each wrapped in an *apperrors.TaskError
// carrying its index. Calls that have not started when ctx is cancelled are
// skipped and the context error is returned.
func ForEach(ctx context.Context, n, limit int, fn func(i int) error) error {
	return run(ctx, n, limit, func(i int) int { return i }, fn)
}

// ForRanges runs fn once per range with ForEach semantics. Task errors
// carry the first row of the failing range.
func ForRanges(ctx context.Context, ranges []RowRange, limit int, fn func(r RowRange) error) error {
	return run(ctx, len(ranges), limit,
		func(i int) int { return ranges[i].Start },
		func(i int) error { return fn(ranges[i]) })
}

func run(ctx context.Context, n, limit int, label func(int) int, fn func(int) error) error {
	if n <= 0 {
		return ctx.Err()
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	var collector ErrorCollector
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			collector.SetError(runTask(i, label(i), fn))
			return nil
		})
	}
	_ = g.Wait()

	if err := collector.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

func runTask(i, row int, fn func(int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &apperrors.TaskError{Row: row, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(i); err != nil {
		return &apperrors.TaskError{Row: row, Cause: err}
	}
	return nil
}
