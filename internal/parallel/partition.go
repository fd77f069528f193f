package parallel

// RowRange is the half-open row interval [Start, End) owned by one task.
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.End - r.Start }

// Partition splits dim rows into contiguous ranges of rowsPerTask rows; the
// last range may be shorter. Ranges are disjoint, ordered and cover every
// row exactly once. rowsPerTask <= 0 is treated as 1.
func Partition(dim, rowsPerTask int) []RowRange {
	if dim <= 0 {
		return nil
	}
	if rowsPerTask <= 0 {
		rowsPerTask = 1
	}
	ranges := make([]RowRange, 0, (dim+rowsPerTask-1)/rowsPerTask)
	for start := 0; start < dim; start += rowsPerTask {
		ranges = append(ranges, RowRange{Start: start, End: min(start+rowsPerTask, dim)})
	}
	return ranges
}
