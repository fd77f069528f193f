package engine

// DefaultRowsPerTask is the parallel task granularity: one task per row.
const DefaultRowsPerTask = 1

// Options tunes a multiplication. The zero value is valid.
type Options struct {
	// Workers bounds how many row tasks of the parallel strategy run at
	// once. Zero or negative starts every task immediately.
	Workers int
	// RowsPerTask groups consecutive output rows into one parallel task.
	// Values below 1 mean DefaultRowsPerTask.
	RowsPerTask int
}

func normalizeOptions(opts Options) Options {
	if opts.RowsPerTask < 1 {
		opts.RowsPerTask = DefaultRowsPerTask
	}
	return opts
}
