package footer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aprskit/packet"
)

// Model counts what the monitor has received.
type Model struct {
	width    int
	frames   int
	messages int
	last     string
	status   string
}

func New() Model {
	return Model{width: 80}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetStatus shows a transient note, e.g. the result of a send.
func (m *Model) SetStatus(s string) {
	m.status = s
}

// Text is the footer line without styling.
func (m Model) Text() string {
	last := m.last
	if last == "" {
		last = "none"
	}
	text := fmt.Sprintf("frames: %d  messages: %d  last: %s  (q to quit)", m.frames, m.messages, last)
	if m.status != "" {
		text = m.status + "  " + text
	}
	return text
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case *packet.Packet:
		m.frames++
		if _, _, ok := msg.Message(); ok {
			m.messages++
		}
		m.last = msg.Callsign()
	}
	return m, nil
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Width(m.width).
		MaxHeight(1)
	return style.Render(m.Text())
}
