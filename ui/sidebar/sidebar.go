package sidebar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the sidebar's state
type Model struct {
	width    int
	height   int
	stations []string // Most recently heard first, no duplicates
}

// New creates a new sidebar model
func New() Model {
	return Model{
		width:    20,
		height:   24,
		stations: make([]string, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// AddStation moves callsign to the top of the heard list.
func (m *Model) AddStation(callsign string) {
	for i, s := range m.stations {
		if s == callsign {
			m.stations = append(m.stations[:i], m.stations[i+1:]...)
			break
		}
	}
	m.stations = append([]string{callsign}, m.stations...)
	m.trim()
}

// Stations returns the heard list, most recent first.
func (m Model) Stations() []string {
	return m.stations
}

// trim drops entries that no longer fit: two border lines and the title.
func (m *Model) trim() {
	maxStations := m.height - 3
	if maxStations < 1 {
		maxStations = 1
	}
	if len(m.stations) > maxStations {
		m.stations = m.stations[:maxStations]
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trim()
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

	header := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Width(m.width - 2 - 2).
		Render("Heard")

	// Build the content by hand so the box never grows past m.height.
	var b strings.Builder
	b.WriteString(header)

	contentHeight := (m.height - 2) - 1
	if contentHeight > 0 {
		b.WriteRune('\n')
		for i, call := range m.stations {
			if i >= contentHeight {
				break
			}
			b.WriteString(fmt.Sprintf("%.*s", m.width-2-2, call))
			if i < len(m.stations)-1 && i < contentHeight-1 {
				b.WriteRune('\n')
			}
		}
	}
	return style.Render(b.String())
}
