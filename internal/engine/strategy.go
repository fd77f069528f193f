package engine

import (
	"strings"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// Strategy selects how a product is computed.
type Strategy int

const (
	// StrategyParallel partitions output rows across goroutines.
	StrategyParallel Strategy = iota
	// StrategySequential computes every row on the calling goroutine.
	StrategySequential
)

// AllStrategies is the pseudo-strategy name that runs every registered
// strategy and compares their products.
const AllStrategies = "all"

// String returns the registry name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyParallel:
		return "parallel"
	case StrategySequential:
		return "sequential"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a registry name, case-insensitively, to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "parallel":
		return StrategyParallel, nil
	case "sequential":
		return StrategySequential, nil
	default:
		return 0, apperrors.NewConfigError("unknown strategy %q (expected parallel or sequential)", name)
	}
}
