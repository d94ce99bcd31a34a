package aprs

import (
	"fmt"
	"strings"
)

const passcodeSeed = 0x73e2

// Passcode generates the APRS-IS passcode for a callsign. The SSID and any
// repeated marker are ignored; case does not matter.
func Passcode(callsign string) (int, error) {
	c, err := ParseCallsign(callsign)
	if err != nil {
		return 0, fmt.Errorf("passcode: %w", err)
	}
	call := strings.ToUpper(c.Call)

	hash := passcodeSeed
	// Two bytes at a time: high byte, then low byte.
	for i := 0; i < len(call); i += 2 {
		hash ^= int(call[i]) << 8
		if i+1 < len(call) {
			hash ^= int(call[i+1])
		}
	}
	return hash & 0x7fff, nil
}
