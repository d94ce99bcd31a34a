package header

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the header's state
type Model struct {
	width    int
	station  string
	iface    string
	verified bool
}

// New creates a header for the given station callsign and interface type.
func New(station, iface string) Model {
	return Model{
		width:   80, // Default width, will be updated
		station: station,
		iface:   iface,
	}
}

// SetVerified marks whether the connection may transmit.
func (m *Model) SetVerified(v bool) {
	m.verified = v
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// Title is the text shown in the bar.
func (m Model) Title() string {
	title := "aprskit"
	if m.station != "" {
		title += " · " + m.station
	}
	if m.iface != "" {
		mode := "rx"
		if m.verified {
			mode = "rx/tx"
		}
		title += fmt.Sprintf(" · %s (%s)", m.iface, mode)
	}
	return title
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("63")).
		Foreground(lipgloss.Color("255")).
		Width(m.width).
		Align(lipgloss.Center)

	return style.Render(m.Title())
}
