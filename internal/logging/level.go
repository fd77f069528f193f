package logging

import (
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// DefaultLevel is the level used when --log-level is not set.
const DefaultLevel = "warn"

// ParseLevel resolves the effective level from a --log-level value and the
// verbose flag. Verbose lowers any enabled level above debug to debug.
func ParseLevel(name string, verbose bool) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.NoLevel, apperrors.NewConfigError("invalid log level %q (expected trace, debug, info, warn, error or disabled)", name)
	}
	if verbose && level > zerolog.DebugLevel && level != zerolog.Disabled {
		level = zerolog.DebugLevel
	}
	return level, nil
}

// Configure sets zerolog's global level. It is called once at startup.
func Configure(name string, verbose bool) error {
	level, err := ParseLevel(name, verbose)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}
