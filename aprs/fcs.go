package aprs

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/sigurn/crc16"
)

// FCS is a bit-serial CRC-16/X.25 accumulator. The zero value is not
// seeded; use NewFCS.
type FCS struct {
	reg uint16
}

// NewFCS returns an accumulator seeded with 0xFFFF.
func NewFCS() FCS {
	return FCS{reg: fcsSeed}
}

// UpdateBit shifts one bit into the register.
func (f *FCS) UpdateBit(bit bool) {
	out := f.reg&0x01 == 0x01
	f.reg >>= 1
	if out != bit {
		f.reg ^= fcsPolynomial
	}
}

// UpdateBytes feeds each byte most significant bit first.
func (f *FCS) UpdateBytes(p []byte) {
	for _, b := range p {
		for i := 7; i >= 0; i-- {
			f.UpdateBit((b>>uint(i))&0x01 == 0x01)
		}
	}
}

// Sum16 is the one's complement of the register.
func (f FCS) Sum16() uint16 {
	return ^f.reg
}

// Digest returns Sum16 serialized little-endian.
func (f FCS) Digest() [2]byte {
	var out [2]byte
	binary.LittleEndian.PutUint16(out[:], f.Sum16())
	return out
}

// AppendFCS returns in followed by its 16 checksum bits. Each digest byte
// is bit-reversed before being appended most significant bit first, so the
// checksum goes out low byte first, least significant bit first.
func AppendFCS(in []bool) []bool {
	f := NewFCS()
	for _, b := range in {
		f.UpdateBit(b)
	}
	out := make([]bool, 0, len(in)+16)
	out = append(out, in...)
	for _, d := range f.Digest() {
		out = appendBitsMSB(out, bits.Reverse8(d))
	}
	return out
}

// FCSValidator checks a bit stream whose last 16 bits are its checksum.
// Bits are held back in a 16-bit window and only enter the register once
// they are known not to belong to the trailing checksum.
type FCSValidator struct {
	fcs    FCS
	window uint16
	n      int
}

func NewFCSValidator() *FCSValidator {
	return &FCSValidator{fcs: NewFCS()}
}

// WriteBit appends one bit to the stream.
func (v *FCSValidator) WriteBit(bit bool) {
	if v.n == 16 {
		v.fcs.UpdateBit(v.window&0x8000 != 0)
	} else {
		v.n++
	}
	v.window <<= 1
	if bit {
		v.window |= 0x0001
	}
}

// Check compares the trailing 16 bits against the checksum of everything
// written before them.
func (v *FCSValidator) Check() error {
	if v.n < 16 {
		return fmt.Errorf("%w: stream of %d bits is shorter than the checksum", ErrChecksumMismatch, v.n)
	}
	got := [2]byte{bits.Reverse8(byte(v.window >> 8)), bits.Reverse8(byte(v.window))}
	want := v.fcs.Digest()
	if got != want {
		return fmt.Errorf("%w: got 0x%02X%02X, computed 0x%02X%02X", ErrChecksumMismatch, got[0], got[1], want[0], want[1])
	}
	return nil
}

// ValidateFCS reports whether the last 16 bits of in are the checksum of
// the bits before them.
func ValidateFCS(in []bool) error {
	v := NewFCSValidator()
	for _, b := range in {
		v.WriteBit(b)
	}
	return v.Check()
}

var x25Table = crc16.MakeTable(crc16.CRC16_X_25)

// FrameCheck is the byte-oriented FCS of data as it appears at the end of a
// byte-aligned AX.25 frame (low byte first). It equals the bit-serial FCS
// fed least significant bit first.
func FrameCheck(data []byte) [2]byte {
	var out [2]byte
	binary.LittleEndian.PutUint16(out[:], crc16.Checksum(data, x25Table))
	return out
}

// AppendFrameCheck returns data followed by FrameCheck(data).
func AppendFrameCheck(data []byte) []byte {
	sum := FrameCheck(data)
	out := make([]byte, 0, len(data)+2)
	out = append(out, data...)
	return append(out, sum[:]...)
}

// CheckFrame validates the trailing two-byte FCS of a byte-aligned frame
// and returns the frame without it.
func CheckFrame(frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, fmt.Errorf("%w: frame of %d bytes has no FCS", ErrChecksumMismatch, len(frame))
	}
	body := frame[:len(frame)-2]
	want := FrameCheck(body)
	if frame[len(frame)-2] != want[0] || frame[len(frame)-1] != want[1] {
		return nil, fmt.Errorf("%w: got 0x%02X%02X, computed 0x%02X%02X",
			ErrChecksumMismatch, frame[len(frame)-2], frame[len(frame)-1], want[0], want[1])
	}
	return body, nil
}

func appendBitsMSB(out []bool, b byte) []bool {
	for i := 7; i >= 0; i-- {
		out = append(out, (b>>uint(i))&0x01 == 0x01)
	}
	return out
}
