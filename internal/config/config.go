package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/agbru/matcalc/internal/engine"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/matrix"
)

// EnvPrefix is prepended to every environment variable read by the
// configuration layer.
const EnvPrefix = "MATCALC_"

// Static defaults.
const (
	DefaultDim      = 256
	DefaultCap      = 1000
	DefaultStrategy = "parallel"
	DefaultTimeout  = 5 * time.Minute
	DefaultGCMode   = "auto"
)

// AppConfig is the resolved configuration of one matcalc invocation.
type AppConfig struct {
	// Dim is the dimension of the random operands. Ignored when LhsFile
	// and RhsFile are given.
	Dim int
	// Cap bounds random elements to (-|Cap|, |Cap|). Must be nonzero.
	Cap int
	// Seed seeds the operand generator. Zero picks a seed from the clock.
	Seed uint64
	// Strategy is a registered strategy name or "all".
	Strategy string
	// Workers bounds concurrent row tasks. Zero selects a value from the
	// CPU count; negative means unbounded.
	Workers int
	// RowsPerTask groups output rows per parallel task. Zero selects a
	// value from the dimension.
	RowsPerTask int
	Timeout     time.Duration

	LhsFile    string
	RhsFile    string
	OutputFile string

	ShowValue bool
	Verbose   bool
	Quiet     bool
	TUI       bool
	NoColor   bool

	Calibrate          bool
	AutoCalibrate      bool
	CalibrationProfile string

	MemoryLimit string
	GCMode      string
	MetricsAddr string
	LogLevel    string
	Completion  string
}

// ToEngineOptions returns the engine tuning carried by the configuration.
func (c AppConfig) ToEngineOptions() engine.Options {
	return engine.Options{Workers: c.Workers, RowsPerTask: c.RowsPerTask}
}

// UsesFiles reports whether operands are read from files.
func (c AppConfig) UsesFiles() bool {
	return c.LhsFile != "" || c.RhsFile != ""
}

// Validate checks the configuration for values that cannot run.
// strategies lists the registered strategy names.
func (c AppConfig) Validate(strategies []string) error {
	if c.LhsFile != "" && c.RhsFile == "" || c.LhsFile == "" && c.RhsFile != "" {
		return apperrors.NewConfigError("--lhs and --rhs must be given together")
	}
	if !c.UsesFiles() {
		if c.Dim <= 0 {
			return apperrors.NewConfigError("dimension must be positive, got %d", c.Dim)
		}
		if err := matrix.ValidateDim(c.Dim); err != nil {
			return apperrors.NewConfigError("invalid --dim: %v", err)
		}
	}
	if c.Cap == 0 {
		return apperrors.NewConfigError("--cap must be nonzero")
	}
	if c.Cap < math.MinInt32 || c.Cap > math.MaxInt32 {
		return apperrors.NewConfigError("--cap %d does not fit in int32", c.Cap)
	}
	if c.Strategy != engine.AllStrategies && !slices.Contains(strategies, c.Strategy) {
		return apperrors.NewConfigError("unknown strategy %q (available: %s, %s)",
			c.Strategy, strings.Join(strategies, ", "), engine.AllStrategies)
	}
	if c.RowsPerTask < 0 {
		return apperrors.NewConfigError("--rows-per-task must not be negative, got %d", c.RowsPerTask)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	switch c.GCMode {
	case "auto", "aggressive", "disabled":
	default:
		return apperrors.NewConfigError("invalid --gc-mode %q (expected auto, aggressive or disabled)", c.GCMode)
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish":
	default:
		return apperrors.NewConfigError("unsupported shell %q for --completion (expected bash, zsh or fish)", c.Completion)
	}
	if _, err := logging.ParseLevel(c.LogLevel, c.Verbose); err != nil {
		return err
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("--tui and --quiet are mutually exclusive")
	}
	return nil
}

// ParseConfig parses args (without the program name) into an AppConfig,
// applies environment overrides and validates the result. Usage and parse
// errors are written to errorWriter. A -h/--help request returns
// flag.ErrHelp.
func ParseConfig(programName string, args []string, errorWriter io.Writer, strategies []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	var c AppConfig
	fs.IntVar(&c.Dim, "dim", DefaultDim, "Dimension of the random square operands.")
	fs.IntVar(&c.Dim, "d", DefaultDim, "Shorthand for --dim.")
	fs.IntVar(&c.Cap, "cap", DefaultCap, "Random elements are draws reduced by this nonzero value (truncating remainder).")
	fs.Uint64Var(&c.Seed, "seed", 0, "Seed for the operand generator (0 picks one from the clock).")
	fs.StringVar(&c.Strategy, "strategy", DefaultStrategy, fmt.Sprintf("Multiplication strategy (%s, or %s to compare).", strings.Join(strategies, ", "), engine.AllStrategies))
	fs.IntVar(&c.Workers, "workers", 0, "Maximum concurrent row tasks (0 = auto, -1 = unbounded).")
	fs.IntVar(&c.RowsPerTask, "rows-per-task", 0, "Output rows per parallel task (0 = auto).")
	fs.DurationVar(&c.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.StringVar(&c.LhsFile, "lhs", "", "Read the left operand from this file.")
	fs.StringVar(&c.RhsFile, "rhs", "", "Read the right operand from this file.")
	fs.StringVar(&c.OutputFile, "output", "", "Write the product to this file.")
	fs.StringVar(&c.OutputFile, "o", "", "Shorthand for --output.")
	fs.BoolVar(&c.ShowValue, "show", false, "Print the product matrix (truncated for large dimensions).")
	fs.BoolVar(&c.ShowValue, "c", false, "Shorthand for --show.")
	fs.BoolVar(&c.Verbose, "verbose", false, "Print the full product and debug logs.")
	fs.BoolVar(&c.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&c.Quiet, "quiet", false, "Print only the checksum.")
	fs.BoolVar(&c.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&c.TUI, "tui", false, "Run in the interactive dashboard.")
	fs.BoolVar(&c.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&c.Calibrate, "calibrate", false, "Benchmark worker counts and task sizes, then exit.")
	fs.BoolVar(&c.AutoCalibrate, "auto-calibrate", false, "Run a quick calibration before multiplying.")
	fs.StringVar(&c.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile (default ~/.matcalc_calibration.json).")
	fs.StringVar(&c.MemoryLimit, "memory-limit", "", "Refuse runs needing more memory than this (e.g. 512MB, 2GB).")
	fs.StringVar(&c.GCMode, "gc-mode", DefaultGCMode, "GC control during multiplication (auto, aggressive, disabled).")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.StringVar(&c.LogLevel, "log-level", logging.DefaultLevel, "Log level (trace, debug, info, warn, error, disabled).")
	fs.StringVar(&c.Completion, "completion", "", "Print a completion script for bash, zsh or fish, then exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&c, fs)
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))

	if err := c.Validate(strategies); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return c, nil
}
