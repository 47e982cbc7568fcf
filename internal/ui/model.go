// ABOUTME: Bubbletea model for the playback status TUI
// ABOUTME: Shows driver, negotiated spec, conversion and level; keys control pause and volume
package ui

import (
	"fmt"
	"strings"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	tea "github.com/charmbracelet/bubbletea"
)

const volumeStep = 8

// Model represents the TUI state
type Model struct {
	// Device
	driver   string
	deviceID string
	status   string

	// Negotiated spec
	freq     int
	format   string
	channels int
	samples  int
	convert  string

	// Source
	title  string
	volume int
	level  float64
	frames int64

	showDebug bool

	controls *Controls

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderSpec()
	s += m.renderControls()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders driver and playback status
func (m Model) renderHeader() string {
	driver := m.driver
	if driver == "" {
		driver = "none"
	}

	return fmt.Sprintf(`┌─ sdlplay ────────────────────────────────────────────┐
│ Driver: %-45s │
│ Status: %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(driver, 45), m.status)
}

// renderSpec renders the source and the device spec
func (m Model) renderSpec() string {
	if m.freq == 0 {
		return "│ No device                                            │\n"
	}

	s := fmt.Sprintf("│ Source: %-45s │\n", truncate(m.title, 45))
	s += fmt.Sprintf("│ Device: %-45s │\n",
		fmt.Sprintf("%dHz %s %s, %d frames", m.freq, m.format, channelName(m.channels), m.samples))

	convert := m.convert
	if convert == "" {
		convert = "none"
	}
	s += fmt.Sprintf("│ Convert: %-44s │\n", truncate(convert, 44))

	return s
}

// renderControls renders volume and level meters
func (m Model) renderControls() string {
	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume: [%s] %3d/%d%-21s │\n"+
		"│ Level:  [%s]%-31s │\n",
		renderBar(m.volume, audio.MaxVolume, 10), m.volume, audio.MaxVolume, "",
		renderBar(int(m.level*100), 100, 10), "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ space:Pause  ↑/↓:Volume  d:Debug  q:Quit             │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Device: %-42s │
│   Frames: %-42d │
`, truncate(m.deviceID, 42), m.frames)
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controls.quit()
		return m, tea.Quit
	case " ", "p":
		m.controls.togglePause()
	case "up":
		m.volume = clampVolume(m.volume + volumeStep)
		m.controls.setVolume(m.volume)
	case "down":
		m.volume = clampVolume(m.volume - volumeStep)
		m.controls.setVolume(m.volume)
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Driver != "" {
		m.driver = msg.Driver
	}
	if msg.DeviceID != "" {
		m.deviceID = msg.DeviceID
	}
	if msg.Status != "" {
		m.status = msg.Status
	}
	if msg.Freq != 0 {
		m.freq = msg.Freq
		m.format = msg.Format
		m.channels = msg.Channels
		m.samples = msg.Samples
		m.convert = msg.Convert
	}
	if msg.Title != "" {
		m.title = msg.Title
	}
	if msg.Volume != nil {
		m.volume = *msg.Volume
	}
	m.level = msg.Level
	if msg.Frames != 0 {
		m.frames = msg.Frames
	}
}

// StatusMsg updates TUI state. Zero fields leave the current value.
type StatusMsg struct {
	Driver   string
	DeviceID string
	Status   string
	Freq     int
	Format   string
	Channels int
	Samples  int
	Convert  string
	Title    string
	Volume   *int
	Level    float64
	Frames   int64
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > audio.MaxVolume {
		return audio.MaxVolume
	}
	return v
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
