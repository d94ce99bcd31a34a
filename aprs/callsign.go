package aprs

import (
	"fmt"
	"strconv"
	"strings"
)

// Callsign is a station address: up to six alphanumeric characters, a
// 4-bit SSID, and the has-been-repeated flag.
type Callsign struct {
	Call string
	SSID uint8
	Digi bool
}

// NewCallsign validates call and ssid and returns the canonical callsign.
func NewCallsign(call string, ssid uint8, digi bool) (Callsign, error) {
	call = strings.ToUpper(strings.TrimSpace(call))
	if err := checkCall(call); err != nil {
		return Callsign{}, err
	}
	if ssid > maxSSID {
		return Callsign{}, fmt.Errorf("%w: ssid %d out of range 0-%d", ErrInvalidCallsign, ssid, maxSSID)
	}
	return Callsign{Call: call, SSID: ssid, Digi: digi}, nil
}

// String renders the text form CALL[-SSID][*].
func (c Callsign) String() string {
	var b strings.Builder
	b.WriteString(c.Call)
	if c.SSID > 0 {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(int(c.SSID)))
	}
	if c.Digi {
		b.WriteByte('*')
	}
	return b.String()
}

// AddressContext selects where the has-been-repeated bit is read from in
// an SSID octet: the octet is shifted right by DigiShift before masking
// with 0x80.
type AddressContext struct {
	DigiShift uint
}

var (
	// RawContext reads bit 7 of the octet as received over raw AX.25.
	RawContext = AddressContext{DigiShift: 0}
	// KISSContext reads bit 7 after the same shift applied to the SSID.
	// A shifted octet never has bit 7 set, so addresses decoded in this
	// context never carry the flag.
	KISSContext = AddressContext{DigiShift: 1}
)

func contextFor(kiss bool) AddressContext {
	if kiss {
		return KISSContext
	}
	return RawContext
}

// ParseCallsign decodes the text form CALL[-SSID][*]. Surrounding
// whitespace is ignored and the call is upper-cased.
func ParseCallsign(s string) (Callsign, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Callsign{}, fmt.Errorf("%w: empty callsign", ErrInvalidCallsign)
	}

	var c Callsign
	if strings.HasSuffix(text, "*") {
		c.Digi = true
		text = strings.TrimSpace(strings.TrimRight(text, "*"))
	}

	call, ssid, hasSSID := strings.Cut(text, "-")
	if hasSSID && strings.Contains(ssid, "-") {
		return Callsign{}, fmt.Errorf("%w: %q has more than one separator", ErrInvalidCallsign, s)
	}
	if err := checkCall(call); err != nil {
		return Callsign{}, fmt.Errorf("%w (in %q)", err, s)
	}
	c.Call = strings.ToUpper(call)

	if hasSSID {
		if len(ssid) < 1 || len(ssid) > 2 || !isDigits(ssid) {
			return Callsign{}, fmt.Errorf("%w: %q has a non-numeric ssid", ErrInvalidCallsign, s)
		}
		n, err := strconv.Atoi(ssid)
		if err != nil || n > maxSSID {
			return Callsign{}, fmt.Errorf("%w: %q ssid out of range 0-%d", ErrInvalidCallsign, s, maxSSID)
		}
		c.SSID = uint8(n)
	}
	return c, nil
}

// parseCallsignLenient accepts APRS-IS path names: 1 to 9 alphanumeric
// characters with case kept, an optional numeric SSID and a trailing '*'.
func parseCallsignLenient(s string) (Callsign, error) {
	text := strings.TrimSpace(s)
	var c Callsign
	if strings.HasSuffix(text, "*") {
		c.Digi = true
		text = strings.TrimRight(text, "*")
	}

	call, ssid, hasSSID := strings.Cut(text, "-")
	if call == "" || len(call) > maxServerIDLen {
		return Callsign{}, fmt.Errorf("%w: %q must be 1-%d characters", ErrInvalidCallsign, call, maxServerIDLen)
	}
	for i := 0; i < len(call); i++ {
		if !isAlnum(call[i]) {
			return Callsign{}, fmt.Errorf("%w: %q contains %q", ErrInvalidCallsign, call, call[i])
		}
	}
	c.Call = call

	if hasSSID {
		n, err := strconv.Atoi(ssid)
		if err != nil || !isDigits(ssid) || n > maxSSID {
			return Callsign{}, fmt.Errorf("%w: %q has an invalid ssid", ErrInvalidCallsign, s)
		}
		c.SSID = uint8(n)
	}
	return c, nil
}

// DecodeCallsignText is ParseCallsign over raw bytes.
func DecodeCallsignText(p []byte) (Callsign, error) {
	return ParseCallsign(string(p))
}

// DecodeCallsignAX25 decodes one 7-byte AX.25 address field. Characters
// that are not alphanumeric after the shift, such as padding spaces, are
// dropped.
func DecodeCallsignAX25(field []byte, ctx AddressContext) (Callsign, error) {
	if len(field) != addressLen {
		return Callsign{}, fmt.Errorf("%w: address field is %d bytes, want %d", ErrMalformedAddressing, len(field), addressLen)
	}

	call := make([]byte, 0, callsignLen)
	for _, b := range field[:callsignLen] {
		if ch := b >> 1; isAlnum(ch) {
			call = append(call, ch)
		}
	}
	if len(call) < minCallLen {
		return Callsign{}, fmt.Errorf("%w: address field % X holds %q, need at least %d characters", ErrInvalidCallsign, field, call, minCallLen)
	}

	octet := field[callsignLen]
	return Callsign{
		Call: string(call),
		SSID: (octet >> 1) & 0x0F,
		Digi: (octet>>ctx.DigiShift)&digiBit != 0,
	}, nil
}

// EncodeAX25 packs the callsign into its 7-byte address field: the call
// space-padded to six characters, each shifted left one bit, then the SSID
// octet (ssid<<1)|0x60, with 0x80 set when Digi.
func (c Callsign) EncodeAX25() [addressLen]byte {
	var out [addressLen]byte
	for i := 0; i < callsignLen; i++ {
		ch := byte(' ')
		if i < len(c.Call) {
			ch = c.Call[i]
		}
		out[i] = ch << 1
	}
	octet := (c.SSID&0x0F)<<1 | ssidBase
	if c.Digi {
		octet |= digiBit
	}
	out[callsignLen] = octet
	return out
}

// ValidCallsign reports whether s is an acceptable over-the-air callsign.
// APRS-IS is more forgiving.
func ValidCallsign(s string) bool {
	_, err := ParseCallsign(s)
	return err == nil
}

func checkCall(call string) error {
	if len(call) < minCallLen || len(call) > callsignLen {
		return fmt.Errorf("%w: %q must be %d-%d characters", ErrInvalidCallsign, call, minCallLen, callsignLen)
	}
	for i := 0; i < len(call); i++ {
		if !isAlnum(call[i]) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidCallsign, call, call[i])
		}
	}
	return nil
}

func isAlnum(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
