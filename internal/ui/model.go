// ABOUTME: Bubbletea model for the extraction progress TUI
// ABOUTME: Defines view state and update logic driven by extract.Stats
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aksiksi/shush/pkg/extract"
)

// Model represents the TUI state
type Model struct {
	// Source
	file       string
	backend    string
	codec      string
	sampleRate int
	channels   int

	// Target
	targetRate int
	output     string

	// Range
	start time.Duration
	total time.Duration

	// Progress
	stats extract.Stats

	// Result
	done    bool
	err     error
	written int

	control *Control

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
	case ProgressMsg:
		m.stats = extract.Stats(msg)
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.written = msg.Samples
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
	s += m.renderSource()
	s += m.renderProgress()
	s += m.renderStats()
	s += m.renderHelp()

	return s
}

// renderHeader renders the file being extracted
func (m Model) renderHeader() string {
	name := "(none)"
	if m.file != "" {
		name = filepath.Base(m.file)
	}

	return fmt.Sprintf(`┌─ shush ──────────────────────────────────────────────┐
│ File:   %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(name, 44))
}

// renderSource renders stream and target formats
func (m Model) renderSource() string {
	if m.codec == "" {
		return "│ Probing...                                           │\n"
	}

	source := fmt.Sprintf("%s %dHz %s", m.codec, m.sampleRate, channelName(m.channels))
	target := fmt.Sprintf("f32 %dHz Mono", m.targetRate)

	s := fmt.Sprintf("│ Source:  %-43s │\n", truncate(source, 43))
	s += fmt.Sprintf("│ Target:  %-43s │\n", truncate(target, 43))
	s += fmt.Sprintf("│ Backend: %-43s │\n", truncate(m.backend, 43))
	if m.output != "" {
		s += fmt.Sprintf("│ Output:  %-43s │\n", truncate(filepath.Base(m.output), 43))
	}
	return s
}

// renderProgress renders the position bar and state
func (m Model) renderProgress() string {
	state := "Decoding"
	switch {
	case m.err != nil:
		state = "Failed: " + m.err.Error()
	case m.done:
		state = fmt.Sprintf("Done (%d samples)", m.written)
	}

	bar := renderBar(m.percent(), 100, 30)

	return fmt.Sprintf("│                                                      │\n"+
		"│ [%s] %3d%%%-17s │\n"+
		"│ %-52s │\n"+
		"│ %-52s │\n",
		bar, m.percent(), "",
		truncate(fmt.Sprintf("Position: %s / %s", formatDuration(m.stats.Position), formatDuration(m.end())), 52),
		truncate(state, 52))
}

// renderStats renders decode counters
func (m Model) renderStats() string {
	st := m.stats
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ %-52s │
│ %-52s │
`,
		truncate(fmt.Sprintf("Packets: %d (skipped %d)  Frames: %d", st.PacketsRead, st.PacketsSkipped, st.FramesDecoded), 52),
		truncate(fmt.Sprintf("Samples: %d  Resampler rebuilds: %d", st.SamplesOut, st.ResamplerRebuilds), 52))
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ q:Quit                                               │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.control != nil {
			select {
			case m.control.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.File != "" {
		m.file = msg.File
	}
	if msg.Backend != "" {
		m.backend = msg.Backend
	}
	if msg.Codec != "" {
		m.codec = msg.Codec
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
	}
	if msg.TargetRate != 0 {
		m.targetRate = msg.TargetRate
	}
	if msg.Output != "" {
		m.output = msg.Output
	}
	if msg.Total != 0 {
		m.start = msg.Start
		m.total = msg.Total
	}
}

// end is the stream position at which extraction stops
func (m Model) end() time.Duration {
	return m.start + m.total
}

// percent is the share of the requested range decoded so far
func (m Model) percent() int {
	if m.done && m.err == nil {
		return 100
	}
	if m.total <= 0 {
		return 0
	}
	p := int((m.stats.Position - m.start) * 100 / m.total)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// StatusMsg describes the extraction. Zero fields leave the model unchanged.
type StatusMsg struct {
	File       string
	Backend    string
	Codec      string
	SampleRate int
	Channels   int
	TargetRate int
	Output     string

	// Start and Total describe the range being extracted
	Start time.Duration
	Total time.Duration
}

// ProgressMsg carries the latest decode statistics
type ProgressMsg extract.Stats

// DoneMsg reports the end of the extraction
type DoneMsg struct {
	Err     error
	Samples int
}

// Utility functions
func renderBar(value, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d", m, s)
}
