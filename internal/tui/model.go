package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/engine"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/sysmon"
)

const (
	// tickInterval is the sampling period of the runtime and system gauges.
	tickInterval = 500 * time.Millisecond
	// leftColumnPercent is the share of the width given to the strategies
	// and result panels.
	leftColumnPercent = 60
)

// run is the state of one multiplication run. Restarting bumps generation
// so that messages from the previous run are ignored.
type run struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	failed     bool
	exitCode   int
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header     HeaderModel
	strategies StrategiesModel
	result     ResultModel
	metrics    MetricsModel
	help       help.Model
	keymap     KeyMap

	run
	width  int
	height int
	paused bool

	parentCtx   context.Context
	multipliers []engine.Multiplier
	lhs, rhs    *matrix.Matrix
	config      config.AppConfig
	ref         *programRef
}

// NewModel returns a dashboard that multiplies lhs by rhs with every
// multiplier.
func NewModel(parentCtx context.Context, multipliers []engine.Multiplier, lhs, rhs *matrix.Matrix, cfg config.AppConfig, version string) Model {
	names := make([]string, len(multipliers))
	for i, m := range multipliers {
		names[i] = m.Name()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	return Model{
		header:      NewHeaderModel(version, lhs.Dim()),
		strategies:  NewStrategiesModel(names),
		metrics:     NewMetricsModel(),
		help:        help.New(),
		keymap:      DefaultKeyMap(),
		run:         run{ctx: ctx, cancel: cancel, exitCode: apperrors.ExitSuccess},
		parentCtx:   parentCtx,
		multipliers: multipliers,
		lhs:         lhs,
		rhs:         rhs,
		config:      cfg,
		ref:         &programRef{},
	}
}

// Init starts the first run.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startMultiplicationCmd(m.ref, m.ctx, m.multipliers, m.lhs, m.rhs, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation && !m.paused {
			m.strategies.UpdateProgress(msg)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation == m.generation {
			for _, r := range msg.Results {
				m.strategies.ApplyResult(r)
			}
		}
		return m, nil

	case FinalResultMsg:
		if msg.Generation == m.generation {
			m.strategies.ApplyResult(msg.Result)
			m.result.SetResult(msg.Result)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.result.SetError(msg.Err, msg.Duration)
			m.failed = true
		}
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.failed = m.failed || msg.ExitCode != apperrors.ExitSuccess
		m.header.SetDone()
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.cancel()
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.run = run{ctx: ctx, cancel: cancel, generation: m.generation + 1, exitCode: apperrors.ExitSuccess}
		m.paused = false
		m.header.Reset()
		m.strategies.Reset()
		m.result.Reset()
		m.metrics.Reset()
		return m, m.startCmds()
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.strategies.View(), m.result.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.metrics.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footerView())
}

func (m Model) footerView() string {
	var status string
	switch {
	case m.done && m.failed:
		status = statusErrorStyle.Render(" FAILED ")
	case m.done:
		status = statusDoneStyle.Render(" DONE ")
	case m.paused:
		status = statusPausedStyle.Render(" PAUSED ")
	default:
		status = statusRunningStyle.Render(" RUNNING ")
	}
	return status + " " + m.help.View(m.keymap)
}

func (m *Model) layoutPanels() {
	leftWidth := m.width * leftColumnPercent / 100
	m.header.SetWidth(m.width)
	m.strategies.SetWidth(leftWidth)
	m.result.SetWidth(leftWidth)
	m.metrics.SetWidth(m.width - leftWidth)
	m.help.Width = m.width
}

// ExitCode returns the exit code of the latest run.
func (m Model) ExitCode() int { return m.exitCode }

// Run shows the dashboard until the user quits or ctx is cancelled and
// returns the exit code of the last run.
func Run(ctx context.Context, multipliers []engine.Multiplier, lhs, rhs *matrix.Matrix, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, multipliers, lhs, rhs, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if fm, ok := finalModel.(Model); ok {
		fm.cancel()
		return fm.exitCode
	}
	return apperrors.ExitSuccess
}

func startMultiplicationCmd(ref *programRef, ctx context.Context, multipliers []engine.Multiplier, lhs, rhs *matrix.Matrix, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}

		results := orchestration.ExecuteMultiplications(ctx, multipliers, lhs, rhs, cfg.ToEngineOptions(), reporter, io.Discard)
		opts := orchestration.PresentationOptions{Dim: lhs.Dim(), Verbose: cfg.Verbose, ShowValue: cfg.ShowValue}
		exitCode := orchestration.AnalyzeComparisonResults(results, opts, presenter, presenter, io.Discard)
		return CalculationCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
