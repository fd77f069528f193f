package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/orchestration"
)

type strategyState int

const (
	strategyRunning strategyState = iota
	strategySucceeded
	strategyFailed
)

type strategyRow struct {
	name     string
	progress float64
	state    strategyState
	duration time.Duration
	err      error
}

// StrategiesModel shows one progress bar per running strategy.
type StrategiesModel struct {
	rows    []strategyRow
	average float64
	eta     time.Duration
	rowText string
	width   int
}

// NewStrategiesModel returns a panel for the named strategies.
func NewStrategiesModel(names []string) StrategiesModel {
	rows := make([]strategyRow, len(names))
	for i, n := range names {
		rows[i] = strategyRow{name: n}
	}
	return StrategiesModel{rows: rows}
}

// SetWidth updates the panel width.
func (s *StrategiesModel) SetWidth(w int) { s.width = w }

// UpdateProgress applies an aggregated update.
func (s *StrategiesModel) UpdateProgress(msg ProgressMsg) {
	if msg.Index >= 0 && msg.Index < len(s.rows) {
		s.rows[msg.Index].progress = msg.Value
	}
	s.average = msg.AverageProgress
	s.eta = msg.ETA
	s.rowText = format.FormatRowProgress(msg.RowsDone, msg.TotalRows, msg.RowsPerSecond)
}

// ApplyResult marks the strategy named by r as finished.
func (s *StrategiesModel) ApplyResult(r orchestration.MultiplicationResult) {
	for i := range s.rows {
		if s.rows[i].name != r.Name {
			continue
		}
		s.rows[i].duration = r.Duration
		s.rows[i].err = r.Err
		if r.Err != nil {
			s.rows[i].state = strategyFailed
		} else {
			s.rows[i].state = strategySucceeded
			s.rows[i].progress = 1
		}
	}
}

// Reset returns every row to its initial state.
func (s *StrategiesModel) Reset() {
	for i := range s.rows {
		s.rows[i] = strategyRow{name: s.rows[i].name}
	}
	s.average, s.eta, s.rowText = 0, 0, ""
}

// Average returns the mean progress.
func (s StrategiesModel) Average() float64 { return s.average }

// View renders the panel.
func (s StrategiesModel) View() string {
	nameWidth := 0
	for _, r := range s.rows {
		nameWidth = max(nameWidth, lipgloss.Width(r.name))
	}
	// borders, padding, name, percent and status columns
	barWidth := max(s.width-nameWidth-30, 10)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Strategies"))
	for _, r := range s.rows {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-*s ", nameWidth, r.name))
		b.WriteString(renderBar(r.progress, barWidth))
		b.WriteString(fmt.Sprintf(" %5.1f%% ", r.progress*100))
		b.WriteString(renderStatus(r))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Overall "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%5.1f%%", s.average*100)))
	b.WriteString(labelStyle.Render("  ETA "))
	b.WriteString(valueStyle.Render(format.FormatETA(s.eta)))
	if s.rowText != "" {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(s.rowText))
	}

	return panelStyle.Width(max(s.width-2, 0)).Render(b.String())
}

func renderBar(progress float64, width int) string {
	filled := int(min(max(progress, 0), 1) * float64(width))
	return barStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func renderStatus(r strategyRow) string {
	switch r.state {
	case strategySucceeded:
		return successStyle.Render("✓ " + format.FormatExecutionDuration(r.duration))
	case strategyFailed:
		return errorStyle.Render("✗ failed")
	default:
		return dimStyle.Render("running")
	}
}
