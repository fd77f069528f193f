package matrix

import (
	"math/rand/v2"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// Source yields uniformly distributed signed 32-bit integers.
type Source interface {
	Int32() int32
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() int32

// Int32 calls f.
func (f SourceFunc) Int32() int32 { return f() }

// pcgSource covers the full signed range; rand.Rand.Int32 only yields
// non-negative values.
type pcgSource struct {
	r *rand.Rand
}

func (s pcgSource) Int32() int32 { return int32(s.r.Uint32()) }

// NewSeededSource returns a deterministic PCG-backed Source.
func NewSeededSource(seed uint64) Source {
	return pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Random builds a dim×dim matrix whose elements are draws from src reduced
// with the truncating remainder against limit. A negative draw keeps its
// sign, so elements lie in (-|limit|, |limit|).
func Random(dim int, limit int32, src Source) (*Matrix, error) {
	if err := ValidateDim(dim); err != nil {
		return nil, err
	}
	if limit == 0 {
		return nil, apperrors.ValidationError{Field: "cap", Message: "must be nonzero"}
	}
	data := make([]int32, dim*dim)
	for k := range data {
		data[k] = src.Int32() % limit
	}
	return From(dim, data), nil
}
