package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/engine"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/memory"
	"github.com/agbru/matcalc/internal/sysmon"
	"github.com/agbru/matcalc/internal/ui"
)

// PrintExecutionConfig displays the operands, limits and host details of
// the upcoming run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	if cfg.UsesFiles() {
		fmt.Fprintf(out, "Multiplying %s%s%s by %s%s%s with a timeout of %s%s%s.\n",
			t.Primary, cfg.LhsFile, t.Reset, t.Primary, cfg.RhsFile, t.Reset, t.Warning, cfg.Timeout, t.Reset)
	} else {
		fmt.Fprintf(out, "Multiplying two random %s%dx%d%s matrices (cap %d, seed %d) with a timeout of %s%s%s.\n",
			t.Primary, cfg.Dim, cfg.Dim, t.Reset, cfg.Cap, cfg.Seed, t.Warning, cfg.Timeout, t.Reset)
	}

	cpuDesc := fmt.Sprintf("%d logical processors", runtime.NumCPU())
	if model := sysmon.CPUModel(); model != "" {
		cpuDesc = fmt.Sprintf("%s (%s)", model, cpuDesc)
	}
	fmt.Fprintf(out, "Environment: %s%s%s, Go %s%s%s.\n",
		t.Info, cpuDesc, t.Reset, t.Info, runtime.Version(), t.Reset)
	if features := sysmon.CPUFeatures(); len(features) > 0 {
		fmt.Fprintf(out, "CPU features: %s.\n", strings.Join(features, ", "))
	}

	workers := fmt.Sprintf("%d", cfg.Workers)
	if cfg.Workers < 0 {
		workers = "unbounded"
	}
	fmt.Fprintf(out, "Parallelism: workers=%s%s%s, rows per task=%s%d%s.\n",
		t.Info, workers, t.Reset, t.Info, cfg.RowsPerTask, t.Reset)

	if !cfg.UsesFiles() {
		strategies := 1
		if cfg.Strategy == engine.AllStrategies {
			strategies = len(engine.GlobalFactory().List())
		}
		est := memory.EstimateMemoryUsage(cfg.Dim, strategies)
		fmt.Fprintf(out, "Estimated memory: %s.\n", format.FormatBytes(est.Total))
	}
}

// PrintExecutionMode states whether a single strategy runs or all of them
// are compared.
func PrintExecutionMode(multipliers []engine.Multiplier, out io.Writer) {
	t := ui.GetCurrentTheme()
	var modeDesc string
	if len(multipliers) > 1 {
		modeDesc = "Parallel comparison of all strategies"
	} else {
		modeDesc = fmt.Sprintf("Single multiplication with the %s%s%s strategy",
			t.Success, multipliers[0].Name(), t.Reset)
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
