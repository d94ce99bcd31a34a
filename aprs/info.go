package aprs

import "fmt"

// Category classifies an information field by its leading symbol.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryStatus
	CategoryPositionNoTSNoMsg
	CategoryPositionNoTSMsg
	CategoryTelemetry
	CategoryObject
	CategoryOldMicE
)

var categoryNames = [...]string{
	CategoryUnknown:           "unknown",
	CategoryStatus:            "status",
	CategoryPositionNoTSNoMsg: "position_no_ts_no_msg",
	CategoryPositionNoTSMsg:   "position_no_ts_msg",
	CategoryTelemetry:         "telemetry",
	CategoryObject:            "object",
	CategoryOldMicE:           "old_mice",
}

var categoryBySymbol = map[byte]Category{
	'>': CategoryStatus,
	'!': CategoryPositionNoTSNoMsg,
	'=': CategoryPositionNoTSMsg,
	'T': CategoryTelemetry,
	';': CategoryObject,
	'`': CategoryOldMicE,
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// CategoryOf looks up a data type symbol.
func CategoryOf(symbol byte) (Category, bool) {
	c, ok := categoryBySymbol[symbol]
	return c, ok
}

// InformationField is the payload of a frame. WellFormed is true only for
// fields tagged from received bytes.
type InformationField struct {
	Payload    []byte
	Category   Category
	WellFormed bool
}

// TagInformation classifies received payload bytes. An unmapped leading
// byte is an error.
func TagInformation(p []byte) (InformationField, error) {
	if len(p) == 0 {
		return InformationField{}, fmt.Errorf("%w: empty information field", ErrUnknownCategory)
	}
	c, ok := CategoryOf(p[0])
	if !ok {
		return InformationField{}, fmt.Errorf("%w: data type %q", ErrUnknownCategory, p[0])
	}
	return InformationField{
		Payload:    append([]byte(nil), p...),
		Category:   c,
		WellFormed: true,
	}, nil
}

// NewInformationField builds a field for locally produced payload bytes
// with a declared category. Any category, including CategoryUnknown, is
// accepted.
func NewInformationField(p []byte, c Category) InformationField {
	return InformationField{
		Payload:  append([]byte(nil), p...),
		Category: c,
	}
}
