package config

import (
	"math"
	"runtime"
	"testing"
)

func TestApplyAdaptiveDefaults(t *testing.T) {
	t.Parallel()
	cfg := ApplyAdaptiveDefaults(AppConfig{Dim: 1024})
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.RowsPerTask != 1 {
		t.Errorf("RowsPerTask = %d, want 1 for large rows", cfg.RowsPerTask)
	}

	explicit := ApplyAdaptiveDefaults(AppConfig{Dim: 8, Workers: -1, RowsPerTask: 3})
	if explicit.Workers != -1 || explicit.RowsPerTask != 3 {
		t.Errorf("explicit values overwritten: %+v", explicit)
	}
}

func TestEstimateRowsPerTask(t *testing.T) {
	t.Parallel()
	tests := []struct {
		dim, workers, want int
	}{
		{0, 4, 1},
		{1024, 8, 1},
		{64, 1, 16},
		{64, 8, 2},
		{16, 0, 16},
		{16, 2, 2},
		{1 << 20, 4, 1},
		{math.MaxInt / 2, 4, 1},
	}
	for _, tt := range tests {
		if got := EstimateRowsPerTask(tt.dim, tt.workers); got != tt.want {
			t.Errorf("EstimateRowsPerTask(%d, %d) = %d, want %d", tt.dim, tt.workers, got, tt.want)
		}
	}
}
