package config

import "runtime"

// ApplyAdaptiveDefaults fills the tuning values left at zero from the
// hardware and the problem size. Explicit values are kept.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	if cfg.RowsPerTask == 0 {
		cfg.RowsPerTask = EstimateRowsPerTask(cfg.Dim, cfg.Workers)
	}
	return cfg
}

// EstimateOptimalWorkers returns the number of concurrently running row
// tasks: one per logical CPU.
func EstimateOptimalWorkers() int {
	return runtime.NumCPU()
}

// EstimateRowsPerTask groups rows so small rows do not drown in scheduling
// overhead: a task should cover roughly 64K multiply-adds, and there should
// be at least four tasks per worker to balance load.
func EstimateRowsPerTask(dim, workers int) int {
	if dim <= 0 {
		return 1
	}
	const targetOps = 1 << 16
	rows := targetOps / dim / dim
	if workers > 0 {
		if maxRows := dim / (4 * workers); rows > maxRows {
			rows = maxRows
		}
	}
	return max(min(rows, dim), 1)
}
