package cmd

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aprskit/aprs"
	"aprskit/config"
	"aprskit/logging"
	"aprskit/packet"
)

func positionOptions() frameOptions {
	return frameOptions{
		Source:      "W2GMD-7",
		Destination: "APYT70",
		Path:        []string{"WIDE1-1", "WIDE2-1"},
		HasPosition: true,
		Lat:         37.77397,
		Lon:         -122.431297,
		Symbol:      "/>",
		Comment:     "test",
	}
}

func TestBuildFramePosition(t *testing.T) {
	f, err := buildFrame(positionOptions())
	require.NoError(t, err)
	assert.Equal(t, "W2GMD-7>APYT70,WIDE1-1,WIDE2-1:!3746.44N/12225.88W>test", f.String())
	assert.Equal(t, aprs.CategoryPositionNoTSNoMsg, f.Info.Category)
	assert.False(t, f.Info.WellFormed)
}

func TestBuildFrameMessageAndInfo(t *testing.T) {
	f, err := buildFrame(frameOptions{Source: "N6GSO", To: "w2gmd", Message: "hi", MsgID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "N6GSO>APYT70::W2GMD    :hi{7", f.String())

	f, err = buildFrame(frameOptions{Source: "N6GSO", Info: ">status"})
	require.NoError(t, err)
	assert.Equal(t, aprs.CategoryStatus, f.Info.Category)
	assert.True(t, f.Info.WellFormed)

	f, err = buildFrame(frameOptions{Source: "N6GSO", Info: "?APRS?"})
	require.NoError(t, err)
	assert.Equal(t, aprs.CategoryUnknown, f.Info.Category)
}

func TestBuildFrameErrors(t *testing.T) {
	_, err := buildFrame(frameOptions{Source: "W2GMD-16", Info: ">x"})
	assert.ErrorIs(t, err, aprs.ErrInvalidCallsign)

	_, err = buildFrame(frameOptions{Source: "W2GMD", Path: []string{"WIDE1-1", "T2TEXAS"}, Info: ">x"})
	assert.ErrorContains(t, err, "path[1]")

	_, err = buildFrame(frameOptions{Source: "W2GMD"})
	assert.ErrorIs(t, err, errNoPayload)

	o := positionOptions()
	o.Symbol = ">"
	_, err = buildFrame(o)
	assert.Error(t, err)
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"WIDE1-1", "WIDE2-1", "RELAY"}, splitPath([]string{"WIDE1-1, WIDE2-1", "RELAY", ""}))
}

func TestEncodeDecodeFormats(t *testing.T) {
	f, err := buildFrame(positionOptions())
	require.NoError(t, err)

	for _, tc := range []struct {
		format string
		opts   decodeOptions
	}{
		{"text", decodeOptions{}},
		{"ui", decodeOptions{Hex: true}},
		{"kiss", decodeOptions{Hex: true}},
		{"fcs", decodeOptions{FCS: true}},
		{"link", decodeOptions{Bits: true}},
	} {
		t.Run(tc.format, func(t *testing.T) {
			out, err := renderEncoded(f, tc.format)
			require.NoError(t, err)

			_, got, err := decodeInput(out, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, f.Source, got.Source)
			assert.Equal(t, f.Destination, got.Destination)
			assert.Equal(t, f.Path, got.Path)
			assert.Equal(t, f.Info.Payload, got.Info.Payload)
		})
	}

	_, err = renderEncoded(f, "morse")
	assert.Error(t, err)
}

func TestRenderAX25(t *testing.T) {
	f, err := buildFrame(frameOptions{Source: "W2GMD", Destination: "APRS", Info: ">"})
	require.NoError(t, err)

	out, err := renderEncoded(f, "ax25")
	require.NoError(t, err)
	assert.Equal(t, "7E82A0A4A6404060AE648E9A884060"+"3E", out)
}

func TestDecodeInputErrors(t *testing.T) {
	_, _, err := decodeInput("zz", decodeOptions{Hex: true})
	assert.Error(t, err)

	f, err := buildFrame(positionOptions())
	require.NoError(t, err)
	out, err := renderEncoded(f, "fcs")
	require.NoError(t, err)
	corrupt := out[:len(out)-1] + "0"
	if corrupt == out {
		corrupt = out[:len(out)-1] + "1"
	}
	_, _, err = decodeInput(corrupt, decodeOptions{FCS: true})
	assert.ErrorIs(t, err, aprs.ErrChecksumMismatch)

	_, _, err = decodeInput("0112", decodeOptions{Bits: true})
	assert.Error(t, err)

	_, _, err = decodeInput("N6GSO>APRS::W2GMD    :hi", decodeOptions{})
	assert.ErrorIs(t, err, aprs.ErrUnknownCategory)
	_, got, err := decodeInput("N6GSO>APRS::W2GMD    :hi", decodeOptions{Lenient: true})
	require.NoError(t, err)
	assert.False(t, got.Info.WellFormed)
}

func TestDescribeFrame(t *testing.T) {
	raw := []byte("W2GMD-7>APYT70,WIDE1-1*,WIDE2-1:>hello")
	f, err := aprs.ParseFrame(raw)
	require.NoError(t, err)

	out := describeFrame(raw, f)
	assert.Contains(t, out, "mode:        text\n")
	assert.Contains(t, out, "source:      W2GMD-7\n")
	assert.Contains(t, out, "path:        WIDE1-1*,WIDE2-1\n")
	assert.Contains(t, out, "category:    status\n")
	assert.Contains(t, out, "well-formed: true\n")
}

func TestPasscodeCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"passcode", "W2GMD-7"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute())
	assert.Equal(t, "10141", strings.TrimSpace(out.String()))
}

func TestMessageFrame(t *testing.T) {
	conf := config.Default()
	conf.Station.Callsign = "W2GMD-7"

	f, err := messageFrame(conf, "n6gso  hello there", 3)
	require.NoError(t, err)
	assert.Equal(t, "W2GMD-7>APYT70,TCPIP*::N6GSO    :hello there{3", f.String())

	conf.Interface.Type = config.InterfaceKISS
	f, err = messageFrame(conf, "N6GSO hi", 4)
	require.NoError(t, err)
	assert.Equal(t, "W2GMD-7>APYT70,WIDE1-1,WIDE2-1::N6GSO    :hi{4", f.String())

	_, err = messageFrame(conf, "N6GSO", 5)
	assert.Error(t, err)
}

type fakeClient struct {
	sent []*aprs.Frame
}

func (c *fakeClient) Start(chan<- *packet.Packet) {}

func (c *fakeClient) Send(f *aprs.Frame) error {
	c.sent = append(c.sent, f)
	return nil
}

func (c *fakeClient) Close() error { return nil }

func TestModelUpdate(t *testing.T) {
	conf := config.Default()
	conf.Station.Callsign = "W2GMD"
	client := &fakeClient{}

	m, err := initialModel(conf, logging.Discard(), client, true)
	require.NoError(t, err)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(model)

	for _, line := range []string{"N6GSO>APRS:>hello", "N6GSO>APRS::W2GMD    :ping{1"} {
		f, err := aprs.ParseFrameLenient([]byte(line))
		require.NoError(t, err)
		next, _ = m.Update(packet.New(f, []byte(line), "aprsis"))
		m = next.(model)
	}
	assert.Equal(t, []string{"N6GSO"}, m.sidebarModel.Stations())
	assert.Len(t, m.trafficModel.Lines(), 2)
	assert.Equal(t, []string{"N6GSO>W2GMD: ping"}, m.msgbarModel.Messages())
	assert.Contains(t, m.View(), "N6GSO")

	// Compose and send a reply.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = next.(model)
	require.True(t, m.composing)
	m.input.SetValue("N6GSO pong")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, cmd)
	assert.False(t, m.composing)

	next, _ = m.Update(cmd())
	m = next.(model)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "W2GMD>APYT70,TCPIP*::N6GSO    :pong{1", client.sent[0].String())
	assert.Contains(t, m.footerModel.Text(), "sent")
}
