// ABOUTME: TUI program construction
// ABOUTME: Wraps bubbletea setup for the player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram builds the bubbletea program for a transport. The caller
// runs it and quits it; playback shutdown stays with the caller.
func NewProgram(t Transport, path string, seekStep float64) *tea.Program {
	return tea.NewProgram(NewModel(t, path, seekStep), tea.WithAltScreen())
}
