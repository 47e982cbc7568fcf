// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and carries key presses back to the application
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Controls holds channels the TUI uses to talk to the application
type Controls struct {
	Pause  chan struct{}
	Volume chan int
	Quit   chan struct{}
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Pause:  make(chan struct{}, 1),
		Volume: make(chan int, 10),
		Quit:   make(chan struct{}, 1),
	}
}

func (c *Controls) togglePause() {
	if c == nil {
		return
	}
	select {
	case c.Pause <- struct{}{}:
	default:
	}
}

func (c *Controls) setVolume(v int) {
	if c == nil {
		return
	}
	select {
	case c.Volume <- v:
	default:
	}
}

func (c *Controls) quit() {
	if c == nil {
		return
	}
	select {
	case c.Quit <- struct{}{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls, volume int) Model {
	return Model{
		status:   "stopped",
		volume:   volume,
		controls: controls,
	}
}

// Run creates the TUI program; the caller starts it
func Run(controls *Controls, volume int) *tea.Program {
	return tea.NewProgram(NewModel(controls, volume), tea.WithAltScreen())
}
