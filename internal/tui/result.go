package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/matcalc/internal/cli"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/orchestration"
)

// ResultModel shows the accepted product or the failure of the run.
type ResultModel struct {
	result   *orchestration.MultiplicationResult
	err      error
	duration time.Duration
	width    int
}

// SetWidth updates the panel width.
func (r *ResultModel) SetWidth(w int) { r.width = w }

// SetResult records the accepted product.
func (r *ResultModel) SetResult(res orchestration.MultiplicationResult) {
	r.result = &res
	r.err = nil
}

// SetError records the failure of every strategy.
func (r *ResultModel) SetError(err error, d time.Duration) {
	r.result = nil
	r.err = err
	r.duration = d
}

// Reset clears the panel.
func (r *ResultModel) Reset() { *r = ResultModel{width: r.width} }

// View renders the panel.
func (r ResultModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Result"))
	switch {
	case r.err != nil:
		var msg strings.Builder
		apperrors.HandleCalculationError(r.err, r.duration, &msg, nil)
		b.WriteString("\n" + errorStyle.Render(strings.TrimSpace(msg.String())))
	case r.result != nil:
		p := r.result.Product
		b.WriteString("\n" + metricLine("Strategy:", r.result.Name))
		b.WriteString("\n" + metricLine("Time:", format.FormatExecutionDuration(r.result.Duration)))
		b.WriteString("\n" + metricLine("Checksum:", fmt.Sprintf("%d", p.Checksum())))
		b.WriteString("\n" + metricLine("Trace:", fmt.Sprintf("%d", p.Trace())))
		b.WriteString("\n\n" + dimStyle.Render(strings.TrimRight(cli.FormatMatrix(p, false), "\n")))
	default:
		b.WriteString("\n" + dimStyle.Render("waiting for the product..."))
	}
	return panelStyle.Width(max(r.width-2, 0)).Render(b.String())
}
