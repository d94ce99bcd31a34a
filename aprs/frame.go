package aprs

import (
	"bytes"
	"fmt"
	"strings"
)

// Mode is the framing detected in a raw buffer.
type Mode int

const (
	ModeText Mode = iota
	ModeAX25
)

func (m Mode) String() string {
	switch m {
	case ModeAX25:
		return "ax25"
	case ModeText:
		return "text"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DetectMode sniffs raw for the control/PID pair 0x03 0xF0 anywhere in the
// buffer. A text frame that happens to carry that pair is still AX.25.
func DetectMode(raw []byte) Mode {
	if bytes.Contains(raw, AddrInfoDelim[:]) {
		return ModeAX25
	}
	return ModeText
}

// Frame is a decoded APRS frame.
type Frame struct {
	Source      Callsign
	Destination Callsign
	Path        []Callsign
	Info        InformationField
}

// ParseFrame decodes raw AX.25 bytes (optionally KISS-wrapped) or a
// SRC>DEST[,PATH...]:INFO text line. Errors are *ParseError naming the
// stage that failed; no partial frame is returned.
func ParseFrame(raw []byte) (*Frame, error) {
	return parseFrame(raw, strictParse)
}

// ParseFrameLenient is ParseFrame with two relaxations for live traffic:
// an information field with an unmapped data type (messages, weather, ...)
// is kept as CategoryUnknown with WellFormed false, and text path entries
// may be APRS-IS names such as q-constructs and server IDs of up to nine
// characters. Empty fields are still rejected.
func ParseFrameLenient(raw []byte) (*Frame, error) {
	return parseFrame(raw, lenientParse)
}

// parseRules selects how the information field and text path entries
// are checked.
type parseRules struct {
	tag      func([]byte) (InformationField, error)
	pathCall func([]byte) (Callsign, error)
}

var (
	strictParse  = parseRules{tag: TagInformation, pathCall: DecodeCallsignText}
	lenientParse = parseRules{tag: tagLenient, pathCall: decodePathLenient}
)

func decodePathLenient(p []byte) (Callsign, error) {
	return parseCallsignLenient(string(p))
}

func tagLenient(p []byte) (InformationField, error) {
	field, err := TagInformation(p)
	if err != nil && len(p) > 0 {
		return NewInformationField(p, CategoryUnknown), nil
	}
	return field, err
}

func parseFrame(raw []byte, rules parseRules) (*Frame, error) {
	switch DetectMode(raw) {
	case ModeAX25:
		return parseAX25(raw, rules)
	default:
		return parseText(raw, rules)
	}
}

func parseAX25(raw []byte, rules parseRules) (*Frame, error) {
	body, wasKISS := StripKISS(raw)

	idx := bytes.Index(body, AddrInfoDelim[:])
	if idx < 0 {
		return nil, stageError("kiss", fmt.Errorf("%w: control/PID delimiter missing after KISS strip", ErrMalformedAddressing))
	}
	block := body[:idx]
	info := bytes.TrimSuffix(body[idx+len(AddrInfoDelim):], trailingSentinel[:])

	addr, err := DecodeAddressing(block, contextFor(wasKISS))
	if err != nil {
		return nil, stageError("addressing", err)
	}
	field, err := rules.tag(info)
	if err != nil {
		return nil, stageError("info", err)
	}
	return &Frame{
		Source:      addr.Source,
		Destination: addr.Destination,
		Path:        addr.Path,
		Info:        field,
	}, nil
}

func parseText(raw []byte, rules parseRules) (*Frame, error) {
	gt := bytes.IndexByte(raw, '>')
	if gt < 0 {
		return nil, stageError("text", fmt.Errorf("%w: no '>' after source", ErrMalformedText))
	}
	colon := bytes.IndexByte(raw, ':')
	if colon < 0 {
		return nil, stageError("text", fmt.Errorf("%w: no ':' before information field", ErrMalformedText))
	}
	if colon < gt {
		return nil, stageError("text", fmt.Errorf("%w: ':' precedes '>'", ErrMalformedText))
	}

	src, err := DecodeCallsignText(raw[:gt])
	if err != nil {
		return nil, stageError("source", err)
	}

	var f Frame
	f.Source = src
	for i, addr := range bytes.Split(raw[gt+1:colon], []byte{','}) {
		if i == 0 {
			if f.Destination, err = DecodeCallsignText(addr); err != nil {
				return nil, stageError("destination", err)
			}
			continue
		}
		call, err := rules.pathCall(addr)
		if err != nil {
			return nil, stageError(fmt.Sprintf("path[%d]", i-1), err)
		}
		f.Path = append(f.Path, call)
	}

	if f.Info, err = rules.tag(raw[colon+1:]); err != nil {
		return nil, stageError("info", err)
	}
	return &f, nil
}

// Addressing returns the frame's address block.
func (f *Frame) Addressing() Addressing {
	return Addressing{Destination: f.Destination, Source: f.Source, Path: f.Path}
}

// EncodeAX25 emits a leading flag, the address block, then the information
// payload unchanged. No control/PID bytes are written; see EncodeUI.
func (f *Frame) EncodeAX25() []byte {
	out := make([]byte, 0, 1+addressLen*(2+len(f.Path))+len(f.Info.Payload))
	out = append(out, AX25Flag)
	out = f.Addressing().AppendAX25(out)
	return append(out, f.Info.Payload...)
}

// EncodeUI emits the address block, control and PID bytes, and the
// information payload: a UI frame that ParseFrame accepts.
func (f *Frame) EncodeUI() []byte {
	out := make([]byte, 0, addressLen*(2+len(f.Path))+len(AddrInfoDelim)+len(f.Info.Payload))
	out = f.Addressing().AppendAX25(out)
	out = append(out, AddrInfoDelim[:]...)
	return append(out, f.Info.Payload...)
}

// EncodeKISS is EncodeUI behind the KISS data-frame command byte.
func (f *Frame) EncodeKISS() []byte {
	return WrapKISS(f.EncodeUI())
}

// String renders the TNC2 text form SRC>DEST[,PATH...]:INFO.
func (f *Frame) String() string {
	var b strings.Builder
	b.WriteString(f.Source.String())
	b.WriteByte('>')
	b.WriteString(f.Destination.String())
	for _, hop := range f.Path {
		b.WriteByte(',')
		b.WriteString(hop.String())
	}
	b.WriteByte(':')
	b.Write(f.Info.Payload)
	return b.String()
}

// EncodeText is String as bytes.
func (f *Frame) EncodeText() []byte {
	return []byte(f.String())
}
