package kiss

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// connectSerial opens a serial KISS TNC at the given baud rate.
func connectSerial(devicePath string, baud int) (io.ReadWriteCloser, error) {
	if devicePath == "" {
		return nil, fmt.Errorf("no device path (e.g., /dev/ttyUSB0 or COM3) provided for KISS serial")
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(devicePath, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", devicePath, err)
	}

	// Without a read timeout Read blocks forever on an idle TNC.
	if err := port.SetReadTimeout(1 * time.Second); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &serialConn{port: port}, nil
}

// serialConn turns the port's timeout (0, nil) reads into a blocking
// reader so bufio does not mistake an idle line for EOF.
type serialConn struct {
	port serial.Port
}

func (s *serialConn) Read(p []byte) (int, error) {
	for {
		n, err := s.port.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (s *serialConn) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialConn) Close() error {
	return s.port.Close()
}
