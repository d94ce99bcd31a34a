package aprsis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"aprskit/aprs"
	"aprskit/config"
	"aprskit/packet"
)

const (
	dialTimeout  = 15 * time.Second
	loginTimeout = 10 * time.Second

	// Used when the station has no usable gridsquare.
	fallbackLat = 41.5
	fallbackLon = -81.0
)

// ErrNotVerified is returned by Send on a read-only login.
var ErrNotVerified = errors.New("aprsis: login not verified, connection is read-only")

// Client represents an active connection to an APRS-IS server
type Client struct {
	conn       net.Conn
	reader     *bufio.Reader
	callsign   string
	filter     string
	logger     *log.Logger
	IsVerified bool

	done      chan struct{} // closed by Close so Start never blocks on send
	closeOnce sync.Once
}

// Connect establishes a connection to an APRS-IS server and logs in.
func Connect(conf config.Config, logger *log.Logger) (*Client, error) {
	callsign := conf.Station.Callsign
	if callsign == "" {
		return nil, fmt.Errorf("callsign missing in config for APRS-IS")
	}
	passcode := checkPasscode(callsign, conf.Station.Passcode, logger)
	filter := Filter(conf.Station.GridSquare, conf.Interface.RadiusKm, logger)

	var (
		conn net.Conn
		err  error
	)
	for _, server := range servers(conf.Interface.Server) {
		logger.Info("Attempting APRS-IS connection", "server", server)
		conn, err = net.DialTimeout("tcp", server, dialTimeout)
		if err == nil {
			break
		}
		logger.Warn("APRS-IS server unreachable", "server", server, "err", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to APRS-IS: %w", err)
	}
	logger.Info("Connected to APRS-IS server", "addr", conn.RemoteAddr())

	client := newClient(conn, callsign, filter, logger)
	if err := client.login(passcode); err != nil {
		client.Close()
		return nil, fmt.Errorf("APRS-IS login failed: %w", err)
	}

	logger.Info("APRS-IS login complete", "verified", client.IsVerified)
	return client, nil
}

func newClient(conn net.Conn, callsign, filter string, logger *log.Logger) *Client {
	return &Client{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		callsign: callsign,
		filter:   filter,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// servers lists the addresses to try in order.
func servers(configured string) []string {
	if configured != "" {
		return []string{configured}
	}
	port := strconv.Itoa(aprs.APRSISFilterPort)
	out := make([]string, 0, len(aprs.APRSISServers))
	for _, host := range aprs.APRSISServers {
		out = append(out, net.JoinHostPort(host, port))
	}
	return out
}

// checkPasscode returns the passcode to send, or -1 for a read-only login.
func checkPasscode(callsign string, passcode int, logger *log.Logger) int {
	if passcode <= 0 {
		logger.Warn("APRS-IS passcode not provided, connecting read-only")
		return -1
	}
	want, err := aprs.Passcode(callsign)
	if err != nil {
		logger.Warn("Cannot compute passcode, connecting read-only", "callsign", callsign, "err", err)
		return -1
	}
	if passcode != want {
		logger.Warn("Passcode does not match callsign, connecting read-only", "callsign", callsign)
		return -1
	}
	return passcode
}

// Filter builds the server-side range filter r/lat/lon/km centred on the
// gridsquare. Without a usable gridsquare it falls back to a wide circle.
func Filter(grid string, radiusKm int, logger *log.Logger) string {
	if grid != "" {
		lat, lon, err := aprs.GridSquareToLatLon(grid)
		if err == nil {
			logger.Info("Setting APRS-IS filter from gridsquare", "grid", grid, "lat", lat, "lon", lon)
			return fmt.Sprintf("r/%.3f/%.3f/%d", lat, lon, radiusKm)
		}
		logger.Warn("Could not parse station gridsquare, using default filter", "grid", grid, "err", err)
	} else {
		logger.Warn("Station gridsquare not set, using default filter")
	}
	return fmt.Sprintf("r/%.3f/%.3f/%d", fallbackLat, fallbackLon, radiusKm*2)
}

// login sends the login string and verifies the response
func (c *Client) login(passcode int) error {
	loginStr := fmt.Sprintf("user %s pass %d vers %s %s filter %s\r\n",
		c.callsign, passcode, aprs.SoftwareName, aprs.SoftwareVersion, c.filter)

	c.logger.Debug("Sending login", "user", c.callsign, "filter", c.filter)
	if _, err := io.WriteString(c.conn, loginStr); err != nil {
		return fmt.Errorf("failed to send login string: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(loginTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return fmt.Errorf("timeout waiting for login response from server")
			}
			if err == io.EOF {
				return fmt.Errorf("connection closed unexpectedly during login")
			}
			return fmt.Errorf("error reading login response: %w", err)
		}
		line := strings.TrimSpace(string(lineBytes))
		c.logger.Debug("APRS-IS server", "line", line)

		if !strings.HasPrefix(line, "#") {
			// Data before logresp; assume a read-only session.
			c.logger.Warn("Received data before login confirmation", "line", line)
			c.IsVerified = false
			return nil
		}
		if !strings.HasPrefix(line, "# logresp ") {
			continue
		}

		// # logresp <callsign> verified|unverified, server <serverid>
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		if !strings.EqualFold(parts[2], c.callsign) {
			return fmt.Errorf("login response callsign mismatch: expected %s, got %s", c.callsign, parts[2])
		}
		status := strings.TrimSuffix(parts[3], ",")
		c.IsVerified = status == "verified" && passcode != -1
		if !c.IsVerified {
			c.logger.Warn("APRS-IS login not verified, continuing read-only", "status", status)
		}
		return nil
	}
}

// Start reads TNC2 lines until the connection fails or the client is
// closed, then closes packetChan. This function should be run as a goroutine.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				c.logger.Info("APRS-IS connection closed")
			} else {
				c.logger.Error("Error reading APRS-IS stream", "err", err)
			}
			return
		}

		line := strings.TrimRight(string(lineBytes), "\r\n")
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		f, err := aprs.ParseFrameLenient([]byte(line))
		if err != nil {
			c.logger.Debug("Failed to parse APRS-IS line", "err", err, "line", line)
			continue
		}
		select {
		case packetChan <- packet.New(f, []byte(line), config.InterfaceAPRSIS):
		case <-c.done:
			return
		}
	}
}

// Send transmits f as a TNC2 line. The login must have been verified.
func (c *Client) Send(f *aprs.Frame) error {
	if !c.IsVerified {
		return ErrNotVerified
	}
	if _, err := io.WriteString(c.conn, f.String()+"\r\n"); err != nil {
		return fmt.Errorf("failed to write APRS-IS line: %w", err)
	}
	c.logger.Debug("Sent frame", "frame", f)
	return nil
}

// Close disconnects the client and releases a Start blocked on delivery.
// Only the first call closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.logger.Info("Closing APRS-IS connection")
			err = c.conn.Close()
		}
	})
	return err
}
