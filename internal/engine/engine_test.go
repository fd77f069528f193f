package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/parallel"
	"github.com/agbru/matcalc/internal/progress"
)

// allMultipliers returns one Multiplier per built-in strategy.
func allMultipliers() []Multiplier {
	return []Multiplier{
		NewMultiplier(&SequentialMultiplier{}),
		NewMultiplier(&ParallelMultiplier{}),
	}
}

// optionVariants covers the parallel strategy's task shapes and limits.
var optionVariants = []Options{
	{},
	{Workers: 1},
	{Workers: 3},
	{RowsPerTask: 2},
	{Workers: 2, RowsPerTask: 5},
	{Workers: -1, RowsPerTask: 100},
}

func mustMultiply(t *testing.T, m Multiplier, lhs, rhs *matrix.Matrix, opts Options) *matrix.Matrix {
	t.Helper()
	product, err := m.Multiply(context.Background(), nil, 0, lhs, rhs, opts)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", m.Name(), err)
	}
	return product
}

func TestMultiply_Scenarios(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		lhs, rhs *matrix.Matrix
		want     *matrix.Matrix
	}{
		{
			name: "2x2",
			lhs:  matrix.From(2, []int32{1, 2, 3, 4}),
			rhs:  matrix.From(2, []int32{5, 6, 7, 8}),
			want: matrix.From(2, []int32{19, 22, 43, 50}),
		},
		{
			name: "3x3",
			lhs:  matrix.From(3, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9}),
			rhs:  matrix.From(3, []int32{9, 8, 7, 6, 5, 4, 3, 2, 1}),
			want: matrix.From(3, []int32{30, 24, 18, 84, 69, 54, 138, 114, 90}),
		},
		{
			name: "identity",
			lhs:  matrix.Identity(3),
			rhs:  matrix.From(3, []int32{2, -1, 0, 5, 7, -3, 11, 13, 17}),
			want: matrix.From(3, []int32{2, -1, 0, 5, 7, -3, 11, 13, 17}),
		},
		{
			name: "1x1",
			lhs:  matrix.From(1, []int32{7}),
			rhs:  matrix.From(1, []int32{6}),
			want: matrix.From(1, []int32{42}),
		},
		{
			name: "wraparound",
			lhs:  matrix.From(1, []int32{65536}),
			rhs:  matrix.From(1, []int32{65536}),
			want: matrix.From(1, []int32{0}),
		},
		{
			name: "accumulator wraps mid-sum",
			lhs:  matrix.From(2, []int32{math.MaxInt32, 1, 0, 0}),
			rhs:  matrix.From(2, []int32{1, 0, 1, 0}),
			want: matrix.From(2, []int32{math.MinInt32, 0, 0, 0}),
		},
	}

	for _, tt := range tests {
		for _, m := range allMultipliers() {
			for _, opts := range optionVariants {
				got := mustMultiply(t, m, tt.lhs, tt.rhs, opts)
				if !got.Equal(tt.want) {
					t.Errorf("%s/%s %+v: got %v, want %v", tt.name, m.Name(), opts, got, tt.want)
				}
			}
		}
	}
}

func TestMultiply_DoesNotModifyOperands(t *testing.T) {
	t.Parallel()
	lhs, _ := matrix.Random(6, 100, matrix.NewSeededSource(1))
	rhs, _ := matrix.Random(6, 100, matrix.NewSeededSource(2))
	lhsBefore, rhsBefore := lhs.Data(), rhs.Data()

	for _, m := range allMultipliers() {
		mustMultiply(t, m, lhs, rhs, Options{})
	}
	if !lhs.Equal(matrix.From(6, lhsBefore)) || !rhs.Equal(matrix.From(6, rhsBefore)) {
		t.Error("multiplication modified an operand")
	}
}

func TestMultiply_DimensionMismatch(t *testing.T) {
	t.Parallel()
	lhs := matrix.Identity(2)
	rhs := matrix.Identity(3)

	for _, m := range allMultipliers() {
		product, err := m.Multiply(context.Background(), nil, 0, lhs, rhs, Options{})
		if product != nil {
			t.Errorf("%s: returned a product on mismatch", m.Name())
		}
		if !errors.Is(err, apperrors.ErrDimensionMismatch) {
			t.Errorf("%s: expected ErrDimensionMismatch, got %v", m.Name(), err)
		}
		var mismatch *apperrors.DimensionMismatchError
		if !errors.As(err, &mismatch) || mismatch.Lhs != 2 || mismatch.Rhs != 3 {
			t.Errorf("%s: unexpected mismatch detail: %v", m.Name(), err)
		}
	}
}

func TestMultiply_NilOperand(t *testing.T) {
	t.Parallel()
	m := NewMultiplier(&ParallelMultiplier{})
	product, err := m.Multiply(context.Background(), nil, 0, nil, matrix.Identity(1), Options{})
	if product != nil || !apperrors.IsPreconditionError(err) {
		t.Errorf("expected precondition error and no product, got %v, %v", product, err)
	}
}

func TestMultiply_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lhs, _ := matrix.Random(32, 10, matrix.NewSeededSource(3))
	for _, m := range allMultipliers() {
		product, err := m.Multiply(ctx, nil, 0, lhs, lhs, Options{Workers: 1})
		if product != nil {
			t.Errorf("%s: returned a partial product after cancellation", m.Name())
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", m.Name(), err)
		}
		var calcErr apperrors.CalculationError
		if !errors.As(err, &calcErr) {
			t.Errorf("%s: expected CalculationError, got %T", m.Name(), err)
		}
	}
}

// panickingMultiplier fails one row block the way a faulty kernel would.
type panickingMultiplier struct {
	failRow int
}

func (p *panickingMultiplier) Name() string { return "Panicking" }

func (p *panickingMultiplier) MultiplyCore(ctx context.Context, tracker *progress.RowTracker, lhs, rhs, dst []int32, dim int, opts Options) error {
	return parallel.ForRanges(ctx, parallel.Partition(dim, opts.RowsPerTask), opts.Workers, func(r parallel.RowRange) error {
		if r.Start == p.failRow {
			panic("row kernel fault")
		}
		for i := r.Start; i < r.End; i++ {
			multiplyRow(lhs, rhs, dst, i, dim)
		}
		return nil
	})
}

func TestMultiply_TaskPanicYieldsNoProduct(t *testing.T) {
	t.Parallel()
	m := NewMultiplier(&panickingMultiplier{failRow: 2})
	lhs := matrix.Identity(4)

	product, err := m.Multiply(context.Background(), nil, 0, lhs, lhs, Options{})
	if product != nil {
		t.Fatal("returned a product although a task failed")
	}
	var taskErr *apperrors.TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError, got %v", err)
	}
	if taskErr.Row != 2 {
		t.Errorf("TaskError.Row = %d, want 2", taskErr.Row)
	}
}

func TestMultiply_ProgressReachesOne(t *testing.T) {
	t.Parallel()
	lhs, _ := matrix.Random(50, 100, matrix.NewSeededSource(4))

	for i, m := range allMultipliers() {
		ch := make(chan progress.ProgressUpdate, 256)
		if _, err := m.Multiply(context.Background(), ch, i, lhs, lhs, Options{Workers: 4}); err != nil {
			t.Fatalf("%s: %v", m.Name(), err)
		}
		close(ch)

		var last progress.ProgressUpdate
		for u := range ch {
			if u.CalculatorIndex != i {
				t.Errorf("%s: update tagged %d, want %d", m.Name(), u.CalculatorIndex, i)
			}
			last = u
		}
		if last.Value != 1.0 {
			t.Errorf("%s: last progress %v, want 1.0", m.Name(), last.Value)
		}
	}
}

type recordedCall struct {
	strategy string
	dim      int
	err      error
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) ObserveMultiplication(strategy string, dim int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{strategy, dim, err})
}

func TestMultiply_RecordsOutcome(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	m := NewMultiplier(&SequentialMultiplier{}, WithRecorder(rec))

	mustMultiply(t, m, matrix.Identity(3), matrix.Identity(3), Options{})
	_, _ = m.Multiply(context.Background(), nil, 0, matrix.Identity(2), matrix.Identity(3), Options{})

	if len(rec.calls) != 2 {
		t.Fatalf("recorded %d calls, want 2", len(rec.calls))
	}
	if rec.calls[0].err != nil || rec.calls[0].dim != 3 || rec.calls[0].strategy != m.Name() {
		t.Errorf("unexpected success record: %+v", rec.calls[0])
	}
	if !errors.Is(rec.calls[1].err, apperrors.ErrDimensionMismatch) {
		t.Errorf("unexpected failure record: %+v", rec.calls[1])
	}
}

// TestStrategyEquivalence_PropertyBased checks that the sequential and
// parallel strategies produce bit-identical products for random operands,
// including full-range values that overflow the accumulator.
func TestStrategyEquivalence_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	seq := NewMultiplier(&SequentialMultiplier{})
	par := NewMultiplier(&ParallelMultiplier{})

	properties.Property("sequential and parallel products are identical", prop.ForAll(
		func(dim int, seed uint64, workers int, rowsPerTask int) bool {
			lhs, _ := matrix.Random(dim, math.MaxInt32, matrix.NewSeededSource(seed))
			rhs, _ := matrix.Random(dim, math.MaxInt32, matrix.NewSeededSource(seed+1))
			opts := Options{Workers: workers, RowsPerTask: rowsPerTask}

			a, errA := seq.Multiply(context.Background(), nil, 0, lhs, rhs, opts)
			b, errB := par.Multiply(context.Background(), nil, 0, lhs, rhs, opts)
			if errA != nil || errB != nil {
				return false
			}
			return a.Dim() == dim && a.Equal(b)
		},
		gen.IntRange(1, 24),
		gen.UInt64(),
		gen.IntRange(-1, 8),
		gen.IntRange(0, 6),
	))

	properties.Property("identity is neutral on both sides", prop.ForAll(
		func(dim int, seed uint64) bool {
			m, _ := matrix.Random(dim, 1000, matrix.NewSeededSource(seed))
			id := matrix.Identity(dim)
			left, err := par.Multiply(context.Background(), nil, 0, id, m, Options{})
			if err != nil {
				return false
			}
			right, err := par.Multiply(context.Background(), nil, 0, m, id, Options{})
			if err != nil {
				return false
			}
			return left.Equal(m) && right.Equal(m)
		},
		gen.IntRange(1, 16),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestConvenienceMultiply(t *testing.T) {
	t.Parallel()
	lhs := matrix.From(2, []int32{1, 2, 3, 4})
	rhs := matrix.From(2, []int32{5, 6, 7, 8})
	want := matrix.From(2, []int32{19, 22, 43, 50})

	for _, s := range []Strategy{StrategyParallel, StrategySequential} {
		got, err := Multiply(context.Background(), s, lhs, rhs)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if !got.Equal(want) {
			t.Errorf("%s: got %v, want %v", s, got, want)
		}
	}
	if _, err := Multiply(context.Background(), Strategy(99), lhs, rhs); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}

func BenchmarkMultiply(b *testing.B) {
	lhs, _ := matrix.Random(128, 1000, matrix.NewSeededSource(1))
	rhs, _ := matrix.Random(128, 1000, matrix.NewSeededSource(2))
	for _, m := range allMultipliers() {
		b.Run(m.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := m.Multiply(context.Background(), nil, 0, lhs, rhs, Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
