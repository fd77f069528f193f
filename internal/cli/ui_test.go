package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/matcalc/internal/cli/mocks"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
)

func sequentialMatrix(dim int) *matrix.Matrix {
	data := make([]int32, dim*dim)
	for i := range data {
		data[i] = int32(i)
	}
	return matrix.From(dim, data)
}

func TestDisplayResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		product     *matrix.Matrix
		verbose     bool
		showValue   bool
		contains    []string
		notContains []string
	}{
		{
			name:        "Summary only",
			product:     matrix.From(2, []int32{19, 22, 43, 50}),
			contains:    []string{"Dimension:           2 x 2", "Checksum:            134", "Trace:               69"},
			notContains: []string{"Product:"},
		},
		{
			name:      "Small product shown in full",
			product:   matrix.From(2, []int32{19, 22, 43, 50}),
			showValue: true,
			contains:  []string{"Product:", "19 22\n43 50\n"},
		},
		{
			name:      "Large product truncated",
			product:   sequentialMatrix(10),
			showValue: true,
			contains:  []string{"(truncated to 4x4)", "Tip: use -v", " …"},
		},
		{
			name:        "Verbose prints everything",
			product:     sequentialMatrix(10),
			verbose:     true,
			showValue:   true,
			contains:    []string{"99"},
			notContains: []string{"truncated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			DisplayResult(tt.product, time.Millisecond, tt.verbose, tt.showValue, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, output)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(output, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestFormatMatrix(t *testing.T) {
	t.Parallel()
	got := FormatMatrix(matrix.From(2, []int32{1, -100, 7, 8}), false)
	want := "   1 -100\n   7    8\n"
	if got != want {
		t.Errorf("FormatMatrix = %q, want %q", got, want)
	}

	truncated := FormatMatrix(sequentialMatrix(9), false)
	if lines := strings.Split(strings.TrimRight(truncated, "\n"), "\n"); len(lines) != PreviewEdge+1 {
		t.Errorf("expected %d lines, got %d:\n%s", PreviewEdge+1, len(lines), truncated)
	}
	if strings.Contains(truncated, "80") {
		t.Errorf("truncated output leaked the last element:\n%s", truncated)
	}
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	rs := &realSpinner{spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(io.Discard))}
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSpinner := mocks.NewMockSpinner(ctrl)
	gomock.InOrder(
		mockSpinner.EXPECT().UpdateSuffix(gomock.Any()),
		mockSpinner.EXPECT().Start(),
	)
	mockSpinner.EXPECT().UpdateSuffix(gomock.Any()).AnyTimes()
	mockSpinner.EXPECT().Stop()

	originalNewSpinner := newSpinner
	t.Cleanup(func() { newSpinner = originalNewSpinner })
	newSpinner = func(...spinner.Option) Spinner { return mockSpinner }

	progressChan := make(chan progress.ProgressUpdate)
	go func() {
		progressChan <- progress.ProgressUpdate{CalculatorIndex: 0, Value: 0.5}
		time.Sleep(10 * time.Millisecond)
		progressChan <- progress.ProgressUpdate{CalculatorIndex: 0, Value: 1.0}
		close(progressChan)
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 1, io.Discard)
	wg.Wait()
}

func TestDisplayProgress_FinalSuffixCountsRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSpinner := mocks.NewMockSpinner(ctrl)
	var mu sync.Mutex
	var last string
	mockSpinner.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
		mu.Lock()
		last = s
		mu.Unlock()
	}).AnyTimes()
	mockSpinner.EXPECT().Start()
	mockSpinner.EXPECT().Stop()

	originalNewSpinner := newSpinner
	t.Cleanup(func() { newSpinner = originalNewSpinner })
	newSpinner = func(...spinner.Option) Spinner { return mockSpinner }

	progressChan := make(chan progress.ProgressUpdate, 2)
	progressChan <- progress.ProgressUpdate{CalculatorIndex: 0, Value: 1, RowsDone: 64, TotalRows: 64}
	progressChan <- progress.ProgressUpdate{CalculatorIndex: 1, Value: 0.5, RowsDone: 32, TotalRows: 64}
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 2, io.Discard)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for _, want := range []string{"75.0%", "rows 96/128"} {
		if !strings.Contains(last, want) {
			t.Errorf("final suffix %q missing %q", last, want)
		}
	}
}

func TestProgressSuffix(t *testing.T) {
	t.Parallel()
	got := progressSuffix(orchestration.AggregatedProgress{AverageProgress: 0.5})
	if strings.Contains(got, "rows") {
		t.Errorf("suffix without row totals should not mention rows: %q", got)
	}
	got = progressSuffix(orchestration.AggregatedProgress{AverageProgress: 0.5, RowsDone: 2048, TotalRows: 4096, RowsPerSecond: 1000})
	if !strings.Contains(got, "rows 2,048/4,096 at 1,000 rows/s") {
		t.Errorf("unexpected suffix %q", got)
	}
}

func TestDisplayProgress_ZeroMultipliers(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan progress.ProgressUpdate)
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}
