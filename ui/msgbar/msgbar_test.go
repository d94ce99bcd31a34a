package msgbar

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aprskit/aprs"
	"aprskit/packet"
)

func parse(t *testing.T, line string) *packet.Packet {
	t.Helper()
	f, err := aprs.ParseFrameLenient([]byte(line))
	require.NoError(t, err)
	return packet.New(f, []byte(line), "aprsis")
}

func TestUpdateCollectsMessages(t *testing.T) {
	m := New()
	m, _ = m.Update(parse(t, "W2GMD-7>APYT70:!3746.44N/12225.88W>test"))
	assert.Empty(t, m.Messages())

	m, _ = m.Update(parse(t, "N6GSO>APRS::W2GMD-7  :first{1"))
	m, _ = m.Update(parse(t, "N6GSO>APRS::W2GMD-7  :second"))
	assert.Equal(t, []string{"N6GSO>W2GMD-7: second", "N6GSO>W2GMD-7: first"}, m.Messages())
}

func TestUpdateTrims(t *testing.T) {
	m := New()
	for i := 0; i < Height+3; i++ {
		m, _ = m.Update(parse(t, "N6GSO>APRS::W2GMD    :ping"))
	}
	assert.Len(t, m.Messages(), Height-2)
}

func TestViewOrder(t *testing.T) {
	m, _ := New().Update(tea.WindowSizeMsg{Width: 40, Height: Height})
	m, _ = m.Update(parse(t, "N6GSO>APRS::W2GMD    :one"))
	m, _ = m.Update(parse(t, "N6GSO>APRS::W2GMD    :two"))

	view := m.View()
	require.Contains(t, view, "one")
	require.Contains(t, view, "two")
	assert.Less(t, strings.Index(view, "one"), strings.Index(view, "two"))
}

