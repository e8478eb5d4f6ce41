// Package tui plays a computed startup run back in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/dynmep/motorstart/internal/metrics"
	"github.com/dynmep/motorstart/internal/motor"
)

const (
	graphWidth  = 70
	graphHeight = 8
	// playback targets roughly ten seconds of wall time per run
	playbackFrames = 300
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model replays one run sample by sample.
type Model struct {
	method   string
	machine  *motor.Machine
	series   *metrics.Series
	summary  metrics.Summary
	playHead int
	step     int
	running  bool
}

func NewModel(method string, machine *motor.Machine, series *metrics.Series, summary metrics.Summary) Model {
	step := len(series.Time) / playbackFrames
	if step < 1 {
		step = 1
	}
	return Model{
		method:  method,
		machine: machine,
		series:  series,
		summary: summary,
		step:    step,
		running: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
			m.running = true
		case "[", "left":
			m.scrub(-m.step)
		case "]", "right":
			m.scrub(m.step)
		}
	case TickMsg:
		if m.running {
			m.scrub(m.step)
			if m.playHead == len(m.series.Time)-1 {
				m.running = false
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) scrub(delta int) {
	m.playHead += delta
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead > len(m.series.Time)-1 {
		m.playHead = len(m.series.Time) - 1
	}
}

func (m Model) View() string {
	i := m.playHead
	if len(m.series.Time) == 0 {
		return "no data\n"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.method)+" START") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
		if i == len(m.series.Time)-1 {
			status = "DONE"
		}
	}
	s.WriteString(fmt.Sprintf("t = %6.2f s   %s\n", m.series.Time[i], status))

	if i > 1 {
		speed := asciigraph.Plot(m.series.SpeedRPM[:i+1],
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("speed (RPM)"),
		)
		s.WriteString(graphStyle.Render(speed) + "\n")

		current := asciigraph.Plot(m.series.Current[:i+1],
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("current (A)"),
		)
		s.WriteString(graphStyle.Render(current) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frequency", fmt.Sprintf("%.1f Hz", m.series.Frequency[i]))
	row("Speed", fmt.Sprintf("%.0f RPM", m.series.SpeedRPM[i]))
	row("Slip", fmt.Sprintf("%.2f %%", m.series.Slip[i]*100))
	row("Torque", fmt.Sprintf("%.0f N.m", m.series.Torque[i]))
	row("Voltage", fmt.Sprintf("%.0f %%", m.series.VoltageFraction[i]*100))

	currentLine := fmt.Sprintf("%.1f A (%.2fx FLA)", m.series.Current[i], m.series.Current[i]/m.machine.FLA)
	if m.series.Current[i] > 3*m.machine.FLA {
		s.WriteString(labelStyle.Render("Current") + alertStyle.Render(currentLine) + "\n")
	} else {
		row("Current", currentLine)
	}

	s.WriteString(helpStyle.Render("space pause/resume  [ ] scrub  r restart  q quit") + "\n")
	return s.String()
}

// Run plays the series in an alt-screen bubbletea program.
func Run(method string, machine *motor.Machine, series *metrics.Series, summary metrics.Summary) error {
	p := tea.NewProgram(NewModel(method, machine, series, summary), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
