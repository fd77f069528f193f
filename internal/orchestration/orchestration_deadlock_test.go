package orchestration

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/agbru/matcalc/internal/engine"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
)

// stubMultiplier simulates multiplier behaviors that stress the progress
// channel and the display goroutine.
type stubMultiplier struct {
	name     string
	behavior string // "instant", "slow", "error", "progress_flood"
	delay    time.Duration
}

func (m *stubMultiplier) Multiply(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, lhs, _ *matrix.Matrix, _ engine.Options) (*matrix.Matrix, error) {
	switch m.behavior {
	case "slow":
		for i := 0; i < 100; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			select {
			case progressChan <- progress.ProgressUpdate{CalculatorIndex: index, Value: float64(i) / 100.0}:
			default:
			}
			time.Sleep(m.delay)
		}
	case "error":
		return nil, errors.New("simulated error")
	case "progress_flood":
		for i := 0; i < 10000; i++ {
			select {
			case progressChan <- progress.ProgressUpdate{CalculatorIndex: index, Value: float64(i) / 10000.0}:
			default:
			}
		}
	}
	return lhs, nil
}

func (m *stubMultiplier) Name() string { return m.name }

func TestOrchestrationNoDeadlock_MixedBehaviors(t *testing.T) {
	testCases := []struct {
		name        string
		multipliers []engine.Multiplier
	}{
		{
			name: "all_instant",
			multipliers: []engine.Multiplier{
				&stubMultiplier{name: "m1", behavior: "instant"},
				&stubMultiplier{name: "m2", behavior: "instant"},
				&stubMultiplier{name: "m3", behavior: "instant"},
			},
		},
		{
			name: "mixed_instant_and_slow",
			multipliers: []engine.Multiplier{
				&stubMultiplier{name: "fast", behavior: "instant"},
				&stubMultiplier{name: "slow", behavior: "slow", delay: time.Millisecond},
			},
		},
		{
			name: "mixed_with_errors",
			multipliers: []engine.Multiplier{
				&stubMultiplier{name: "ok", behavior: "instant"},
				&stubMultiplier{name: "err", behavior: "error"},
			},
		},
		{
			name: "progress_flood",
			multipliers: []engine.Multiplier{
				&stubMultiplier{name: "flood1", behavior: "progress_flood"},
				&stubMultiplier{name: "flood2", behavior: "progress_flood"},
			},
		},
		{
			name: "real_engines",
			multipliers: []engine.Multiplier{
				engine.NewMultiplier(&engine.ParallelMultiplier{}),
				engine.NewMultiplier(&engine.SequentialMultiplier{}),
			},
		},
	}

	operand := matrix.Identity(32)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				ExecuteMultiplications(ctx, tc.multipliers, operand, operand, engine.Options{}, NullProgressReporter{}, io.Discard)
			}()

			select {
			case <-done:
			case <-time.After(10 * time.Second):
				t.Fatal("DEADLOCK: ExecuteMultiplications did not complete within timeout")
			}
		})
	}
}

func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	multipliers := []engine.Multiplier{
		&stubMultiplier{name: "slow1", behavior: "slow", delay: 100 * time.Millisecond},
		&stubMultiplier{name: "slow2", behavior: "slow", delay: 100 * time.Millisecond},
	}
	operand := matrix.Identity(2)

	done := make(chan []MultiplicationResult)
	go func() {
		done <- ExecuteMultiplications(ctx, multipliers, operand, operand, engine.Options{}, NullProgressReporter{}, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case results := <-done:
		for _, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("%s: expected context.Canceled, got %v", r.Name, r.Err)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}
