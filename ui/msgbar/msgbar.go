package msgbar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aprskit/packet"
)

// Height is the bar's fixed height, border included.
const Height = 7

// Model holds the message bar's state
type Model struct {
	width    int
	height   int
	messages []string // Newest first
}

// New creates a new message bar model
func New() Model {
	return Model{
		width:    80,
		height:   Height,
		messages: make([]string, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Messages returns the formatted lines, newest first.
func (m Model) Messages() []string {
	return m.messages
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = Height

	case *packet.Packet:
		to, body, ok := msg.Message()
		if !ok {
			return m, nil
		}

		// N0CALL>KD2YCB: Hello world!
		line := fmt.Sprintf("%s>%s: %s", msg.Callsign(), to, body)
		m.messages = append([]string{line}, m.messages...)

		maxMessages := Height - 2
		if len(m.messages) > maxMessages {
			m.messages = m.messages[:maxMessages]
		}
	}
	return m, nil
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2).
		Padding(0, 1)

	contentWidth := m.width - 2 - 2
	if contentWidth < 0 {
		contentWidth = 0
	}
	numLines := m.height - 2
	if numLines < 0 {
		numLines = 0
	}

	// Oldest at the top so the bar reads in arrival order.
	var b strings.Builder
	for i := 0; i < numLines; i++ {
		if i < len(m.messages) {
			line := m.messages[len(m.messages)-1-i]
			if len(line) > contentWidth {
				line = line[:contentWidth]
			}
			b.WriteString(line)
		}
		if i < numLines-1 {
			b.WriteRune('\n')
		}
	}
	return style.Render(b.String())
}
