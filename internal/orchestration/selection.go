package orchestration

import "github.com/agbru/matcalc/internal/engine"

// GetMultipliersToRun resolves a strategy selection against factory. "all"
// yields every registered strategy in sorted name order; an unknown name
// yields nil.
func GetMultipliersToRun(strategy string, factory engine.MultiplierFactory) []engine.Multiplier {
	if strategy == engine.AllStrategies {
		names := factory.List()
		multipliers := make([]engine.Multiplier, 0, len(names))
		for _, name := range names {
			if m, err := factory.Get(name); err == nil {
				multipliers = append(multipliers, m)
			}
		}
		return multipliers
	}
	if m, err := factory.Get(strategy); err == nil {
		return []engine.Multiplier{m}
	}
	return nil
}
