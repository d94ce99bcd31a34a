package kiss

import (
	"bufio"
	"bytes"
	"io"
)

// KISS protocol constants
const (
	FEND  byte = 0xC0 // Frame End
	FESC  byte = 0xDB // Frame Escape
	TFEND byte = 0xDC // Transposed Frame End
	TFESC byte = 0xDD // Transposed Frame Escape
)

// Decoder reads KISS frames from an io.Reader
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a new KISS frame decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadFrame reads a single, complete KISS frame, command byte included.
// Bytes outside FEND delimiters are ignored and empty frames are skipped.
func (d *Decoder) ReadFrame() ([]byte, error) {
	var frame bytes.Buffer
	inFrame := false

	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}

		switch b {
		case FEND:
			if inFrame && frame.Len() > 0 {
				return frame.Bytes(), nil
			}
			// Start of frame, or FEND FEND.
			inFrame = true
		case FESC:
			if !inFrame {
				continue
			}
			b, err = d.r.ReadByte()
			if err != nil {
				return nil, err
			}
			switch b {
			case TFEND:
				frame.WriteByte(FEND)
			case TFESC:
				frame.WriteByte(FESC)
			default:
				// Protocol error; keep the byte.
				frame.WriteByte(b)
			}
		default:
			if inFrame {
				frame.WriteByte(b)
			}
		}
	}
}

// Encode wraps a frame body (command byte included) in FEND delimiters,
// escaping FEND and FESC.
func Encode(body []byte) []byte {
	out := make([]byte, 0, len(body)+4)
	out = append(out, FEND)
	for _, b := range body {
		switch b {
		case FEND:
			out = append(out, FESC, TFEND)
		case FESC:
			out = append(out, FESC, TFESC)
		default:
			out = append(out, b)
		}
	}
	return append(out, FEND)
}
