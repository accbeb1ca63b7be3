// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for extraction progress
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// QuitMsg is sent when the user asks to abort
type QuitMsg struct{}

// Control holds channels for communication from the TUI to the caller
type Control struct {
	Quit chan QuitMsg
}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Quit: make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		control: ctrl,
	}
}

// Run creates the TUI program. The caller starts it with Run on its own
// goroutine and feeds it StatusMsg, ProgressMsg and DoneMsg values.
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
