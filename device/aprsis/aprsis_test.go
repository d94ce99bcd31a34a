package aprsis

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aprskit/aprs"
	"aprskit/config"
	"aprskit/logging"
	"aprskit/packet"
)

// serve plays the server side of a login, then sends lines and hangs up.
func serve(t *testing.T, conn net.Conn, logresp string, lines ...string) <-chan string {
	t.Helper()
	login := make(chan string, 1)
	go func() {
		defer conn.Close()
		// net.Pipe is unbuffered, so read the login before the banner.
		l, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return
		}
		login <- l
		io.WriteString(conn, "# aprsc 2.1.14\r\n")
		io.WriteString(conn, logresp+"\r\n")
		for _, line := range lines {
			if _, err := io.WriteString(conn, line+"\r\n"); err != nil {
				return
			}
		}
	}()
	return login
}

func TestLoginAndStart(t *testing.T) {
	client, server := net.Pipe()
	login := serve(t, server, "# logresp W2GMD verified, server T2TEST",
		"# keepalive",
		"",
		"W2GMD-7>APYT70,TCPIP*,qAC,T2TEST:!3746.44N/12225.88W>test",
		"garbage",
		"N6GSO>APRS,TCPIP*::W2GMD    :hello{3",
	)

	c := newClient(client, "W2GMD", "r/37.774/-122.431/50", logging.Discard())
	require.NoError(t, c.login(10141))
	assert.True(t, c.IsVerified)
	assert.Equal(t, "user W2GMD pass 10141 vers aprskit 0.1 filter r/37.774/-122.431/50\r\n", <-login)

	ch := make(chan *packet.Packet)
	go c.Start(ch)

	var got []*packet.Packet
	for p := range ch {
		got = append(got, p)
	}
	require.Len(t, got, 2)

	assert.Equal(t, "W2GMD-7", got[0].Callsign())
	assert.Equal(t, aprs.CategoryPositionNoTSNoMsg, got[0].Category())
	assert.Equal(t, config.InterfaceAPRSIS, got[0].Interface)
	require.Len(t, got[0].Frame.Path, 3)
	assert.True(t, got[0].Frame.Path[0].Digi)

	to, body, ok := got[1].Message()
	require.True(t, ok)
	assert.Equal(t, "W2GMD", to)
	assert.Equal(t, "hello", body)
}

func TestLoginUnverified(t *testing.T) {
	client, server := net.Pipe()
	serve(t, server, "# logresp W2GMD unverified, server T2TEST")

	c := newClient(client, "W2GMD", "r/41.500/-81.000/400", logging.Discard())
	require.NoError(t, c.login(-1))
	assert.False(t, c.IsVerified)
	assert.ErrorIs(t, c.Send(&aprs.Frame{}), ErrNotVerified)
	c.Close()
}

func TestLoginCallsignMismatch(t *testing.T) {
	client, server := net.Pipe()
	serve(t, server, "# logresp N6GSO verified, server T2TEST")

	c := newClient(client, "W2GMD", "", logging.Discard())
	assert.Error(t, c.login(10141))
	c.Close()
}

func TestSend(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	c := newClient(client, "W2GMD", "", logging.Discard())
	c.IsVerified = true

	info, err := aprs.MessageInfo("N6GSO", "hi", "1")
	require.NoError(t, err)
	f := &aprs.Frame{
		Source:      aprs.Callsign{Call: "W2GMD"},
		Destination: aprs.Callsign{Call: "APYT70"},
		Info:        info,
	}

	done := make(chan error, 1)
	go func() { done <- c.Send(f) }()

	line, err := bufio.NewReader(server).ReadString('\n')
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Equal(t, "W2GMD>APYT70::N6GSO    :hi{1\r\n", line)
}

func TestFilter(t *testing.T) {
	log := logging.Discard()
	assert.Equal(t, "r/41.500/-81.000/400", Filter("", 200, log))
	assert.Equal(t, "r/41.500/-81.000/100", Filter("ZZ99", 50, log))
	assert.Equal(t, "r/37.500/-123.000/50", Filter("CM87", 50, log))
}

func TestServers(t *testing.T) {
	assert.Equal(t, []string{"example.net:14580"}, servers("example.net:14580"))
	assert.Equal(t, []string{"rotate.aprs.net:14580", "noam.aprs2.net:14580"}, servers(""))
}

func TestCheckPasscode(t *testing.T) {
	log := logging.Discard()
	assert.Equal(t, 10141, checkPasscode("W2GMD", 10141, log))
	assert.Equal(t, -1, checkPasscode("W2GMD", 12345, log))
	assert.Equal(t, -1, checkPasscode("W2GMD", 0, log))
	assert.Equal(t, -1, checkPasscode("W2GMD-16", 10141, log))
}

func TestCloseReleasesBlockedStart(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	c := newClient(client, "W2GMD", "", logging.Discard())

	ch := make(chan *packet.Packet) // never read
	stopped := make(chan struct{})
	go func() {
		c.Start(ch)
		close(stopped)
	}()

	_, err := io.WriteString(server, "W2GMD-7>APYT70,TCPIP*,qAC,T2TEXAS:>on the air\r\n")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Start still blocked after Close")
	}
	_, ok := <-ch
	assert.False(t, ok)
}

func TestStartKeepsServerIDsInPath(t *testing.T) {
	client, server := net.Pipe()
	c := newClient(client, "W2GMD", "", logging.Discard())
	go func() {
		defer server.Close()
		io.WriteString(server, "N0CALL>APRS,TCPIP*,qAC,T2TEXAS:>hello\r\n")
	}()

	ch := make(chan *packet.Packet)
	go c.Start(ch)

	p, ok := <-ch
	require.True(t, ok)
	require.Len(t, p.Frame.Path, 3)
	assert.Equal(t, "T2TEXAS", p.Frame.Path[2].Call)
	for range ch {
	}
}
