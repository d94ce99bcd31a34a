// Package traffic renders the scrolling list of received frames.
package traffic

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lestrrat-go/strftime"

	"aprskit/aprs"
	"aprskit/packet"
)

var categoryColors = map[aprs.Category]lipgloss.Color{
	aprs.CategoryStatus:            lipgloss.Color("12"),
	aprs.CategoryPositionNoTSNoMsg: lipgloss.Color("10"),
	aprs.CategoryPositionNoTSMsg:   lipgloss.Color("10"),
	aprs.CategoryTelemetry:         lipgloss.Color("13"),
	aprs.CategoryObject:            lipgloss.Color("11"),
	aprs.CategoryOldMicE:           lipgloss.Color("14"),
}

// Model holds the newest frames, newest first.
type Model struct {
	width   int
	height  int
	history int
	stamp   *strftime.Strftime
	lines   []string
}

// New builds a list keeping at most history frames. timeFormat is a
// strftime pattern such as "%H:%M:%S".
func New(timeFormat string, history int) (Model, error) {
	stamp, err := strftime.New(timeFormat)
	if err != nil {
		return Model{}, fmt.Errorf("timestamp format %q: %w", timeFormat, err)
	}
	return Model{
		width:   60,
		height:  20,
		history: history,
		stamp:   stamp,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Lines returns the rendered rows, newest first.
func (m Model) Lines() []string {
	return m.lines
}

// Format renders one row: time, category, then the TNC2 text.
func (m Model) Format(p *packet.Packet) string {
	category := p.Category().String()
	if !p.Frame.Info.WellFormed {
		category = "-"
	}
	if c, ok := categoryColors[p.Category()]; ok {
		category = lipgloss.NewStyle().Foreground(c).Render(category)
	}
	return fmt.Sprintf("%s %s %s", m.stamp.FormatString(p.Received), category, p.Frame.String())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case *packet.Packet:
		m.lines = append([]string{m.Format(msg)}, m.lines...)
		if len(m.lines) > m.history {
			m.lines = m.lines[:m.history]
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

	inner := lipgloss.NewStyle().MaxWidth(m.width - 2 - 2)
	rows := m.height - 2
	var b strings.Builder
	for i := 0; i < rows && i < len(m.lines); i++ {
		if i > 0 {
			b.WriteRune('\n')
		}
		b.WriteString(inner.Render(m.lines[i]))
	}
	return style.Render(b.String())
}
