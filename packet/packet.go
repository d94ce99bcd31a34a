package packet

import (
	"fmt"
	"time"

	"aprskit/aprs"
)

// Packet is a decoded frame plus where and when it was heard.
type Packet struct {
	Frame     *aprs.Frame
	Raw       []byte
	Interface string // "kiss" or "aprsis"
	Received  time.Time
}

// New wraps a decoded frame. raw is copied.
func New(f *aprs.Frame, raw []byte, iface string) *Packet {
	return &Packet{
		Frame:     f,
		Raw:       append([]byte(nil), raw...),
		Interface: iface,
		Received:  time.Now(),
	}
}

// Callsign is the source station as CALL[-SSID].
func (p *Packet) Callsign() string {
	return p.Frame.Source.String()
}

// Category of the information field.
func (p *Packet) Category() aprs.Category {
	return p.Frame.Info.Category
}

// Message returns the addressee and body when the payload is an APRS message.
func (p *Packet) Message() (to, body string, ok bool) {
	to, body, _, err := aprs.ParseMessage(p.Frame.Info.Payload)
	if err != nil {
		return "", "", false
	}
	return to, body, true
}

// Summary is a one-line description for lists.
func (p *Packet) Summary() string {
	return fmt.Sprintf("%s %-9s %s", p.Received.Format("15:04:05"), p.Callsign(), p.Category())
}
