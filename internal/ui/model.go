// ABOUTME: Bubbletea model for the playback TUI
// ABOUTME: Maps keys to transport commands and renders player status
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/zwdconstrucition/linkstart/internal/version"
	"github.com/zwdconstrucition/linkstart/pkg/playback"
)

// Transport is the slice of the player the TUI drives. Commands run on
// the bubbletea goroutine; the player serializes them internally.
type Transport interface {
	Start() error
	Stop()
	Pause() error
	Resume() error
	Seek(t float64) error
	State() playback.State
	IsPlaying() bool
	CurrentTime() float64
	Duration() float64
	QueueDepth() int
}

var _ Transport = (*playback.Player)(nil)

// tickInterval paces position refreshes.
const tickInterval = 200 * time.Millisecond

const progressBarWidth = 30

type tickMsg time.Time

// Model is the TUI state.
type Model struct {
	transport Transport
	path      string
	seekStep  float64

	position float64
	duration float64
	state    playback.State
	depth    int

	volume int
	muted  bool

	err      error
	width    int
	height   int
	quitting bool
}

// NewModel builds a model over a transport. The path is shown in the
// header; seekStep is the arrow-key jump in seconds.
func NewModel(t Transport, path string, seekStep float64) Model {
	m := Model{
		transport: t,
		path:      path,
		seekStep:  seekStep,
		volume:    100,
	}
	m.refresh()
	return m
}

// Init schedules the first position refresh.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.refresh()
		return m, tick()
	}
	return m, nil
}

// refresh pulls current numbers from the transport.
func (m *Model) refresh() {
	if m.transport == nil {
		return
	}
	m.state = m.transport.State()
	m.position = m.transport.CurrentTime()
	m.duration = m.transport.Duration()
	m.depth = m.transport.QueueDepth()
}

// handleKey maps keys to transport commands.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "+", "=":
		m.volume = lo.Clamp(m.volume+5, 0, 100)
	case "down", "-":
		m.volume = lo.Clamp(m.volume-5, 0, 100)
	case "m":
		m.muted = !m.muted
	default:
		if m.transport == nil {
			return m, nil
		}
		switch key {
		case " ":
			m.err = m.togglePlayback()
		case "s":
			m.transport.Stop()
			m.err = nil
		case "left":
			m.err = m.transport.Seek(m.position - m.seekStep)
		case "right":
			m.err = m.transport.Seek(m.position + m.seekStep)
		}
		m.refresh()
	}
	return m, nil
}

// togglePlayback cycles play and pause on the spacebar. From stopped
// it starts over the current file.
func (m Model) togglePlayback() error {
	switch m.transport.State() {
	case playback.StatePlaying:
		return m.transport.Pause()
	case playback.StatePaused:
		return m.transport.Resume()
	default:
		return m.transport.Start()
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Stopping playback...\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86"))

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", version.Product, version.Version)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("File:   "))
	b.WriteString(valueStyle.Render(m.path))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("State:  "))
	stateText := m.state.String()
	if m.muted {
		stateText += "  [muted]"
	}
	b.WriteString(valueStyle.Render(stateText))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Buffer: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d chunks", m.depth)))
	b.WriteString("\n\n")

	durText := "--:--"
	bar := renderBar(0, 1, progressBarWidth)
	if m.duration > 0 {
		durText = formatTime(m.duration)
		bar = renderBar(int(m.position), int(m.duration), progressBarWidth)
	}
	b.WriteString(fmt.Sprintf("  %s [%s] %s\n", formatTime(m.position), bar, durText))
	b.WriteString(fmt.Sprintf("  Volume: [%s] %d%%\n", renderBar(m.volume, 100, 10), m.volume))

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString("\n")
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := lipgloss.NewStyle().Faint(true)
	b.WriteString(help.Render("space:play/pause  s:stop  left/right:seek  up/down:volume  m:mute  q:quit"))
	b.WriteString("\n")

	return b.String()
}

// renderBar draws a block progress bar of the given width.
func renderBar(value, max, width int) string {
	if max <= 0 {
		max = 1
	}
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	return b.String()
}

// formatTime renders seconds as m:ss, or h:mm:ss past an hour.
func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}
