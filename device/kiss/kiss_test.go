package kiss

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aprskit/aprs"
	"aprskit/config"
	"aprskit/logging"
	"aprskit/packet"
)

type fakeConn struct {
	io.Reader
	written bytes.Buffer
	closed  bool
}

func (c *fakeConn) Write(p []byte) (int, error) { return c.written.Write(p) }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func testFrame(t *testing.T) *aprs.Frame {
	t.Helper()
	f, err := aprs.ParseFrame([]byte("W2GMD-7>APYT70,WIDE1-1,WIDE2-1:!3746.44N/12225.88W>test"))
	require.NoError(t, err)
	return f
}

func collect(c *Client) []*packet.Packet {
	ch := make(chan *packet.Packet)
	go c.Start(ch)

	var out []*packet.Packet
	for p := range ch {
		out = append(out, p)
	}
	return out
}

func TestClientStart(t *testing.T) {
	f := testFrame(t)
	msg := &aprs.Frame{
		Source:      aprs.Callsign{Call: "N6GSO"},
		Destination: aprs.Callsign{Call: "APRS"},
		Info:        aprs.NewInformationField([]byte(":W2GMD-7  :hi"), aprs.CategoryUnknown),
	}

	var stream bytes.Buffer
	stream.Write(Encode([]byte{0x06, 0x01}))               // command frame
	stream.Write(Encode([]byte{0x00, 'n', 'o', 'p', 'e'})) // unparseable
	stream.Write(Encode(f.EncodeKISS()))
	stream.Write(Encode(msg.EncodeKISS()))

	c := NewClient(&fakeConn{Reader: &stream}, logging.Discard())
	got := collect(c)

	require.Len(t, got, 2)
	assert.Equal(t, "W2GMD-7", got[0].Callsign())
	assert.Equal(t, f.Info.Payload, got[0].Frame.Info.Payload)
	assert.Equal(t, config.InterfaceKISS, got[0].Interface)
	assert.Equal(t, f.EncodeKISS(), got[0].Raw)

	assert.Equal(t, "N6GSO", got[1].Callsign())
	assert.Equal(t, aprs.CategoryUnknown, got[1].Category())
}

func TestClientSend(t *testing.T) {
	conn := &fakeConn{Reader: bytes.NewReader(nil)}
	c := NewClient(conn, logging.Discard())
	f := testFrame(t)

	require.NoError(t, c.Send(f))
	assert.Equal(t, Encode(f.EncodeKISS()), conn.written.Bytes())

	frame, err := NewDecoder(&conn.written).ReadFrame()
	require.NoError(t, err)
	back, err := aprs.ParseFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, f.Source, back.Source)
	assert.Equal(t, f.Path, back.Path)

	require.NoError(t, c.Close())
	assert.True(t, conn.closed)
}

func TestConnectRejectsOtherInterfaces(t *testing.T) {
	_, err := Connect(config.InterfaceConfig{Type: config.InterfaceAPRSIS}, logging.Discard())
	assert.Error(t, err)

	_, err = Connect(config.InterfaceConfig{Type: config.InterfaceKISS}, logging.Discard())
	assert.Error(t, err)
}

func TestCloseReleasesBlockedStart(t *testing.T) {
	pr, pw := io.Pipe()
	conn := &fakeConn{Reader: pr}
	c := NewClient(conn, logging.Discard())

	ch := make(chan *packet.Packet) // never read
	stopped := make(chan struct{})
	go func() {
		c.Start(ch)
		close(stopped)
	}()

	_, err := pw.Write(Encode(testFrame(t).EncodeKISS()))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Start still blocked after Close")
	}
	_, ok := <-ch
	assert.False(t, ok)
	assert.True(t, conn.closed)
}
