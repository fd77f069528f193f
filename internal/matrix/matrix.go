// Package matrix provides the dense square int32 matrix used by the
// multiplication engine. A Matrix is immutable after construction and owns
// its row-major backing buffer exclusively.
package matrix

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// Matrix is a dim×dim grid of int32 values stored row-major in a single
// buffer of length dim*dim.
type Matrix struct {
	dim  int
	data []int32
}

// Offset returns the row-major position of element (i, j) in a dim×dim buffer.
func Offset(dim, i, j int) int {
	return i*dim + j
}

// From wraps data as a dim×dim matrix, taking ownership of the slice.
// The caller guarantees len(data) == dim*dim; use New when the input is
// untrusted.
func From(dim int, data []int32) *Matrix {
	return &Matrix{dim: dim, data: data}
}

// ValidateDim rejects dimensions that are not positive or whose element
// count dim*dim does not fit in an int.
func ValidateDim(dim int) error {
	if dim <= 0 {
		return apperrors.ValidationError{Field: "dim", Message: fmt.Sprintf("must be positive, got %d", dim)}
	}
	if dim > math.MaxInt/dim {
		return apperrors.ValidationError{Field: "dim", Message: fmt.Sprintf("%d is too large: %dx%d elements overflow", dim, dim, dim)}
	}
	return nil
}

// New is the checked counterpart of From.
func New(dim int, data []int32) (*Matrix, error) {
	if err := ValidateDim(dim); err != nil {
		return nil, err
	}
	if len(data) != dim*dim {
		return nil, apperrors.ValidationError{
			Field:   "data",
			Message: fmt.Sprintf("expected %d elements for a %dx%d matrix, got %d", dim*dim, dim, dim, len(data)),
		}
	}
	return From(dim, data), nil
}

// Identity returns the dim×dim identity matrix.
func Identity(dim int) *Matrix {
	data := make([]int32, dim*dim)
	for i := 0; i < dim; i++ {
		data[Offset(dim, i, i)] = 1
	}
	return From(dim, data)
}

// Dim returns the matrix dimension.
func (m *Matrix) Dim() int { return m.dim }

// Len returns the number of stored elements.
func (m *Matrix) Len() int { return len(m.data) }

// At returns element (i, j).
func (m *Matrix) At(i, j int) (int32, error) {
	if i < 0 || i >= m.dim || j < 0 || j >= m.dim {
		return 0, &apperrors.IndexOutOfRangeError{Row: i, Col: j, Dim: m.dim}
	}
	return m.data[Offset(m.dim, i, j)], nil
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) ([]int32, error) {
	if i < 0 || i >= m.dim {
		return nil, &apperrors.IndexOutOfRangeError{Row: i, Col: 0, Dim: m.dim}
	}
	row := make([]int32, m.dim)
	copy(row, m.data[Offset(m.dim, i, 0):Offset(m.dim, i+1, 0)])
	return row, nil
}

// Data returns a copy of the backing buffer in row-major order.
func (m *Matrix) Data() []int32 {
	out := make([]int32, len(m.data))
	copy(out, m.data)
	return out
}

// Equal reports whether m and other have the same dimension and elements.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.dim != other.dim || len(m.data) != len(other.data) {
		return false
	}
	for k, v := range m.data {
		if other.data[k] != v {
			return false
		}
	}
	return true
}

// Checksum folds every element into a single wrapping int64 sum.
// It is a cheap fingerprint for comparing large products in output.
func (m *Matrix) Checksum() int64 {
	var sum int64
	for _, v := range m.data {
		sum += int64(v)
	}
	return sum
}

// Trace returns the wrapping int32 sum of the main diagonal.
func (m *Matrix) Trace() int32 {
	var tr int32
	for i := 0; i < m.dim; i++ {
		tr += m.data[Offset(m.dim, i, i)]
	}
	return tr
}

// String renders the matrix as nested rows, e.g. [[1 2] [3 4]].
func (m *Matrix) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < m.dim; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		for j := 0; j < m.dim; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", m.data[Offset(m.dim, i, j)])
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// Buffer exposes the backing storage to the engine kernels in this module.
// Callers must treat the returned slice as read-only.
func (m *Matrix) Buffer() []int32 { return m.data }
