package aprs

import "fmt"

// Addressing is the destination, source and digipeater path carried ahead
// of the information field. Path order is the relay order.
type Addressing struct {
	Destination Callsign
	Source      Callsign
	Path        []Callsign
}

// DecodeAddressing splits an AX.25 address block into 7-byte fields:
// destination, source, then each path entry. Destination and source are
// read in ctx; path entries always carry the raw has-been-repeated bit.
func DecodeAddressing(block []byte, ctx AddressContext) (Addressing, error) {
	if len(block) < minAddrBlock {
		return Addressing{}, fmt.Errorf("%w: address block is %d bytes, need at least %d", ErrMalformedAddressing, len(block), minAddrBlock)
	}
	if rest := len(block) - minAddrBlock; rest%addressLen != 0 {
		return Addressing{}, fmt.Errorf("%w: %d trailing path bytes are not a multiple of %d", ErrMalformedAddressing, rest, addressLen)
	}

	var a Addressing
	var err error
	if a.Destination, err = DecodeCallsignAX25(block[:addressLen], ctx); err != nil {
		return Addressing{}, fmt.Errorf("destination: %w", err)
	}
	if a.Source, err = DecodeCallsignAX25(block[addressLen:minAddrBlock], ctx); err != nil {
		return Addressing{}, fmt.Errorf("source: %w", err)
	}
	for off := minAddrBlock; off < len(block); off += addressLen {
		hop, err := DecodeCallsignAX25(block[off:off+addressLen], RawContext)
		if err != nil {
			return Addressing{}, fmt.Errorf("path[%d]: %w", len(a.Path), err)
		}
		a.Path = append(a.Path, hop)
	}
	return a, nil
}

// AppendAX25 appends the encoded destination, source and path fields.
func (a Addressing) AppendAX25(out []byte) []byte {
	dest := a.Destination.EncodeAX25()
	src := a.Source.EncodeAX25()
	out = append(out, dest[:]...)
	out = append(out, src[:]...)
	for _, hop := range a.Path {
		field := hop.EncodeAX25()
		out = append(out, field[:]...)
	}
	return out
}

// EncodeAX25 returns the encoded address block.
func (a Addressing) EncodeAX25() []byte {
	return a.AppendAX25(make([]byte, 0, addressLen*(2+len(a.Path))))
}
