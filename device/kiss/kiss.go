package kiss

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"aprskit/aprs"
	"aprskit/config"
	"aprskit/packet"
)

// Client represents an active connection to a KISS TNC
type Client struct {
	conn   io.ReadWriteCloser // The underlying connection (TCP, Serial, etc.)
	logger *log.Logger

	done      chan struct{} // closed by Close so Start never blocks on send
	closeOnce sync.Once
}

// Connect establishes a connection to a TNC based on the interface config.
// A device containing ':' is dialed as TCP, anything else is a serial port.
func Connect(conf config.InterfaceConfig, logger *log.Logger) (*Client, error) {
	if !strings.EqualFold(conf.Type, config.InterfaceKISS) {
		return nil, fmt.Errorf("interface type %q is not kiss", conf.Type)
	}

	if strings.Contains(conf.Device, ":") {
		logger.Info("Attempting KISS TCP connection", "address", conf.Device)
		tcpConn, err := connectTCP(conf.Device)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to KISS TNC via TCP")
		return NewClient(tcpConn, logger), nil
	}

	logger.Info("Attempting KISS serial connection", "device", conf.Device, "baud", conf.Baud)
	serialConn, err := connectSerial(conf.Device, conf.Baud)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to KISS TNC via serial")
	return NewClient(serialConn, logger), nil
}

// NewClient wraps an already open TNC connection.
func NewClient(conn io.ReadWriteCloser, logger *log.Logger) *Client {
	return &Client{conn: conn, logger: logger, done: make(chan struct{})}
}

// Start reads frames until the connection fails or the client is closed,
// then closes packetChan.
// Only data frames (command byte 0x00) are parsed; the command byte is
// passed through so the frame is decoded in the KISS context.
// This function should be run as a goroutine.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	decoder := NewDecoder(c.conn)
	defer close(packetChan)

	for {
		frame, err := decoder.ReadFrame()
		if err != nil {
			if err == io.EOF {
				c.logger.Info("KISS connection closed")
			} else {
				c.logger.Error("Error reading KISS frame", "err", err)
			}
			return
		}

		if frame[0] != aprs.KISSDataFrame {
			c.logger.Debug("Ignoring non-data KISS frame", "cmd", fmt.Sprintf("%02X", frame[0]))
			continue
		}

		f, err := aprs.ParseFrameLenient(frame)
		if err != nil {
			c.logger.Debug("Failed to parse KISS frame", "err", err, "hex", fmt.Sprintf("%X", frame))
			continue
		}
		c.logger.Debug("Got frame", "frame", f)
		select {
		case packetChan <- packet.New(f, frame, config.InterfaceKISS):
		case <-c.done:
			return
		}
	}
}

// Send transmits f as a KISS data frame.
func (c *Client) Send(f *aprs.Frame) error {
	if _, err := c.conn.Write(Encode(f.EncodeKISS())); err != nil {
		return fmt.Errorf("failed to write KISS frame: %w", err)
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
			err = c.conn.Close()
		}
	})
	return err
}
