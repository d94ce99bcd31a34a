package aprs

import (
	"fmt"
	"slices"
)

// BytesToBits expands p in AX.25 transmission order, least significant bit
// of each octet first.
func BytesToBits(p []byte) []bool {
	out := make([]bool, 0, len(p)*8)
	for _, b := range p {
		for i := 0; i < 8; i++ {
			out = append(out, (b>>uint(i))&0x01 == 0x01)
		}
	}
	return out
}

// BitsToBytes packs bits produced by BytesToBits.
func BitsToBytes(in []bool) ([]byte, error) {
	if len(in)%8 != 0 {
		return nil, fmt.Errorf("aprs: %d bits is not a whole number of octets", len(in))
	}
	out := make([]byte, len(in)/8)
	for i, bit := range in {
		if bit {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out, nil
}

// StuffBits inserts a zero after every run of five ones so the payload can
// never imitate a flag.
func StuffBits(in []bool) []bool {
	out := make([]bool, 0, len(in)+len(in)/5)
	ones := 0
	for _, bit := range in {
		out = append(out, bit)
		if !bit {
			ones = 0
			continue
		}
		ones++
		if ones == 5 {
			out = append(out, false)
			ones = 0
		}
	}
	return out
}

// UnstuffBits removes the zeros inserted by StuffBits. Six ones in a row
// inside a frame is an error.
func UnstuffBits(in []bool) ([]bool, error) {
	out := make([]bool, 0, len(in))
	ones := 0
	for i, bit := range in {
		if ones == 5 {
			if bit {
				return nil, fmt.Errorf("%w: six consecutive ones at bit %d", ErrBitStuffing, i)
			}
			ones = 0
			continue
		}
		out = append(out, bit)
		if bit {
			ones++
		} else {
			ones = 0
		}
	}
	return out, nil
}

var flagBits = BytesToBits([]byte{AX25Flag})

// LinkBits is the frame as sent on the air: opening flag, the bit-stuffed
// UI frame with its FCS, closing flag.
func (f *Frame) LinkBits() []bool {
	body := StuffBits(AppendFCS(BytesToBits(f.EncodeUI())))
	out := make([]bool, 0, len(body)+2*len(flagBits))
	out = append(out, flagBits...)
	out = append(out, body...)
	return append(out, flagBits...)
}

// ParseLinkBits reverses LinkBits: it checks both flags, removes stuffing,
// validates the FCS and parses the enclosed frame.
func ParseLinkBits(in []bool) (*Frame, error) {
	n := len(flagBits)
	if len(in) < 2*n || !slices.Equal(in[:n], flagBits) || !slices.Equal(in[len(in)-n:], flagBits) {
		return nil, stageError("link", ErrMissingFlag)
	}
	body, err := UnstuffBits(in[n : len(in)-n])
	if err != nil {
		return nil, stageError("link", err)
	}
	if err := ValidateFCS(body); err != nil {
		return nil, stageError("fcs", err)
	}
	frame, err := BitsToBytes(body[:len(body)-16])
	if err != nil {
		return nil, stageError("link", err)
	}
	return ParseFrame(frame)
}

