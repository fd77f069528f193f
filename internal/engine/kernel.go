package engine

import "github.com/agbru/matcalc/internal/matrix"

// multiplyRow computes output row i of lhs·rhs into dst. All three slices
// are row-major dim×dim buffers; only dst's row i is written.
//
// The accumulator is int32, so overflow wraps. Terms are summed in
// ascending k.
func multiplyRow(lhs, rhs, dst []int32, i, dim int) {
	row := lhs[matrix.Offset(dim, i, 0):matrix.Offset(dim, i+1, 0)]
	out := dst[matrix.Offset(dim, i, 0):matrix.Offset(dim, i+1, 0)]
	for j := 0; j < dim; j++ {
		var sum int32
		for k, a := range row {
			sum += a * rhs[matrix.Offset(dim, k, j)]
		}
		out[j] = sum
	}
}
