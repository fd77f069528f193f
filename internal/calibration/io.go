package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/ui"
)

// printCalibrationResults prints one row per measured candidate and marks
// best. Pass a best with a negative Duration when nothing succeeded.
func printCalibrationResults(out io.Writer, results []Result, best Result) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sWorkers%s\t%sRows/task%s\t%sExecution Time%s\n",
		theme.Bold, theme.Reset, theme.Bold, theme.Reset, theme.Bold, theme.Reset)
	fmt.Fprintf(tw, "  %s\t%s\t%s\n", strings.Repeat("─", 7), strings.Repeat("─", 9), strings.Repeat("─", 22))
	for _, res := range results {
		durationStr := fmt.Sprintf("%sN/A%s", theme.Error, theme.Reset)
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				durationStr = "< 1µs"
			}
		}
		highlight := ""
		if res.Err == nil && best.Duration >= 0 && res.Workers == best.Workers && res.RowsPerTask == best.RowsPerTask {
			highlight = fmt.Sprintf(" %s(Optimal)%s", theme.Success, theme.Reset)
		}
		fmt.Fprintf(tw, "  %s%d%s\t%d\t%s%s%s%s\n",
			theme.Primary, res.Workers, theme.Reset, res.RowsPerTask,
			theme.Warning, durationStr, theme.Reset, highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the retained tuning on one line.
func printCalibrationOutput(best Result, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%sAuto-calibration%s: workers=%s%d%s, rows per task=%s%d%s (%s)\n",
		theme.Success, theme.Reset,
		theme.Warning, best.Workers, theme.Reset,
		theme.Warning, best.RowsPerTask, theme.Reset,
		format.FormatExecutionDuration(best.Duration))
}
