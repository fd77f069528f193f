package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/matcalc/internal/format"
)

// historyLength is the number of samples kept per gauge.
const historyLength = 120

// MetricsModel displays runtime memory, system gauges and throughput.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int

	cpu *Series
	mem *Series

	speed        float64 // progress fraction per second
	lastProgress float64
	lastUpdate   time.Time

	width int
}

// NewMetricsModel returns an empty metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpu:        NewSeries(historyLength),
		mem:        NewSeries(historyLength),
		lastUpdate: time.Now(),
	}
}

// SetWidth updates the panel width.
func (m *MetricsModel) SetWidth(w int) { m.width = w }

// UpdateMemStats stores a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a system usage sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Add(msg.CPUPercent)
	m.mem.Add(msg.MemPercent)
}

// UpdateProgress folds the average progress into a smoothed speed.
// Updates closer than 50ms apart are ignored.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt <= 0.05 {
		return
	}
	if dp := progress - m.lastProgress; dp > 0 {
		instant := dp / dt
		if m.speed > 0 {
			m.speed = 0.7*m.speed + 0.3*instant
		} else {
			m.speed = instant
		}
	}
	m.lastProgress = progress
	m.lastUpdate = now
}

// Reset clears progress-derived values and keeps the gauges.
func (m *MetricsModel) Reset() {
	m.speed = 0
	m.lastProgress = 0
	m.lastUpdate = time.Now()
}

// View renders the panel.
func (m MetricsModel) View() string {
	sparkWidth := max(m.width-20, 8)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Runtime"))
	b.WriteString("\n" + metricLine("Heap:", format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapSys)))
	b.WriteString("\n" + metricLine("GC:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6)))
	b.WriteString("\n" + metricLine("Goroutines:", fmt.Sprintf("%d", m.numGoroutine)))
	b.WriteString("\n" + metricLine("Speed:", fmt.Sprintf("%.1f%%/s", m.speed*100)))
	b.WriteString("\n" + metricLine("CPU:", fmt.Sprintf("%5.1f%%", m.cpu.Last())))
	b.WriteString("\n  " + cpuSparklineStyle.Render(RenderSparkline(m.cpu.Values(), sparkWidth)))
	b.WriteString("\n" + metricLine("MEM:", fmt.Sprintf("%5.1f%%", m.mem.Last())))
	b.WriteString("\n  " + memSparklineStyle.Render(RenderSparkline(m.mem.Values(), sparkWidth)))

	return panelStyle.Width(max(m.width-2, 0)).Render(b.String())
}

func metricLine(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
}
