package memory

import (
	"strconv"
	"strings"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

const elementSize = 4 // int32

// Estimate is the expected heap footprint of one multiplication.
type Estimate struct {
	Operands uint64 // both input matrices
	Result   uint64 // the product buffer
	Total    uint64
}

// EstimateMemoryUsage returns the footprint of multiplying two dim×dim
// matrices with the given number of concurrent strategies. Operands are
// shared between strategies; each strategy allocates its own result.
func EstimateMemoryUsage(dim, strategies int) Estimate {
	if dim <= 0 {
		return Estimate{}
	}
	if strategies < 1 {
		strategies = 1
	}
	cells := uint64(dim) * uint64(dim)
	e := Estimate{
		Operands: 2 * cells * elementSize,
		Result:   uint64(strategies) * cells * elementSize,
	}
	e.Total = e.Operands + e.Result
	return e
}

var units = []struct {
	suffix string
	factor uint64
}{
	{"KIB", 1 << 10}, {"MIB", 1 << 20}, {"GIB", 1 << 30}, {"TIB", 1 << 40},
	{"KB", 1 << 10}, {"MB", 1 << 20}, {"GB", 1 << 30}, {"TB", 1 << 40},
	{"K", 1 << 10}, {"M", 1 << 20}, {"G", 1 << 30}, {"T", 1 << 40},
	{"B", 1},
}

// ParseMemoryLimit parses a size such as "512MB", "2GiB" or "1048576".
// Units are binary. The empty string means no limit and returns 0.
func ParseMemoryLimit(input string) (uint64, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return 0, nil
	}
	factor := uint64(1)
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			factor = u.factor
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value <= 0 {
		return 0, apperrors.NewConfigError("invalid memory limit %q", input)
	}
	return uint64(value * float64(factor)), nil
}

// CheckBudget returns a MemoryError when required exceeds limit, or
// exceeds available when available is known (non-zero). A zero limit
// disables the limit check.
func CheckBudget(required, limit, available uint64) error {
	if limit > 0 && required > limit {
		return apperrors.MemoryError{Requested: required, Available: available, Limit: limit}
	}
	if available > 0 && required > available {
		return apperrors.MemoryError{Requested: required, Available: available, Limit: limit}
	}
	return nil
}
