package engine

import (
	"sort"
	"sync"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// MultiplierFactory creates and looks up multipliers by registry name.
type MultiplierFactory interface {
	// Get returns the multiplier registered under name.
	Get(name string) (Multiplier, error)
	// List returns the registered names in sorted order.
	List() []string
	// GetAll returns every registered multiplier keyed by name.
	GetAll() map[string]Multiplier
	// Register adds or replaces the strategy registered under name.
	Register(name string, core CoreMultiplier) error
}

// DefaultFactory is the stock MultiplierFactory, pre-populated with the
// parallel and sequential strategies. Multipliers are built lazily and
// cached. Safe for concurrent use.
type DefaultFactory struct {
	mu       sync.RWMutex
	cores    map[string]CoreMultiplier
	cache    map[string]Multiplier
	engineOp []EngineOption
}

// NewDefaultFactory returns a factory whose multipliers are built with opts.
func NewDefaultFactory(opts ...EngineOption) *DefaultFactory {
	return &DefaultFactory{
		cores: map[string]CoreMultiplier{
			StrategyParallel.String():   &ParallelMultiplier{},
			StrategySequential.String(): &SequentialMultiplier{},
		},
		cache:    make(map[string]Multiplier),
		engineOp: opts,
	}
}

// Get returns the multiplier registered under name. Unknown names yield an
// apperrors.ConfigError.
func (f *DefaultFactory) Get(name string) (Multiplier, error) {
	f.mu.RLock()
	m, ok := f.cache[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.cache[name]; ok {
		return m, nil
	}
	core, ok := f.cores[name]
	if !ok {
		return nil, apperrors.NewConfigError("unknown multiplier %q", name)
	}
	m = NewMultiplier(core, f.engineOp...)
	f.cache[name] = m
	return m, nil
}

// List returns the registered names in sorted order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.cores))
	for name := range f.cores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns every registered multiplier keyed by name.
func (f *DefaultFactory) GetAll() map[string]Multiplier {
	all := make(map[string]Multiplier)
	for _, name := range f.List() {
		if m, err := f.Get(name); err == nil {
			all[name] = m
		}
	}
	return all
}

// Register adds or replaces the strategy under name.
func (f *DefaultFactory) Register(name string, core CoreMultiplier) error {
	if name == "" || name == AllStrategies {
		return apperrors.NewConfigError("invalid multiplier name %q", name)
	}
	if core == nil {
		return apperrors.NewConfigError("nil multiplier for %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cores[name] = core
	delete(f.cache, name)
	return nil
}

var (
	globalFactory     *DefaultFactory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	globalFactoryOnce.Do(func() {
		globalFactory = NewDefaultFactory()
	})
	return globalFactory
}
