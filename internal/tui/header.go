package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/matcalc/internal/format"
)

// HeaderModel renders the top bar: title, operand shape and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	dim       int
	width     int
}

// NewHeaderModel returns a header for a dim×dim run.
func NewHeaderModel(version string, dim int) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, dim: dim}
}

// SetDone freezes the elapsed time.
func (h *HeaderModel) SetDone() { h.endTime = time.Now() }

// Reset restarts the elapsed time.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "matcalc monitor"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	sep := dimStyle.Render(" | ")
	row := titleStyle.Render(title) +
		sep + accentStyle.Render(fmt.Sprintf("%d x %d", h.dim, h.dim)) +
		sep + accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))
	return headerStyle.Width(max(h.width, lipgloss.Width(row))).Render(row)
}
