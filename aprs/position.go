package aprs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecimalToDMS splits an angle into signed whole degrees, minutes and
// seconds.
func DecimalToDMS(dec float64) (deg, min, sec float64) {
	deg = math.Trunc(dec)
	decMin := math.Abs(dec-deg) * 60
	min = math.Trunc(decMin)
	sec = (decMin - min) * 60
	return deg, min, sec
}

// DecimalToDM splits an angle into signed whole degrees and decimal minutes.
func DecimalToDM(dec float64) (deg, min float64) {
	deg = math.Trunc(dec)
	return deg, math.Abs(dec-deg) * 60
}

// DMSToDecimal joins degrees, minutes and seconds; the sign of deg applies
// to the whole angle.
func DMSToDecimal(deg, min, sec float64) float64 {
	d := math.Trunc(deg)
	if math.Signbit(deg) {
		return d - min/60 - sec/3600
	}
	return d + min/60 + sec/3600
}

// DMToDecimal joins degrees and decimal minutes.
func DMToDecimal(deg, min float64) float64 {
	return DMSToDecimal(deg, min, 0)
}

// LatitudeDM formats a latitude as DDMM.MMN or DDMM.MMS.
func LatitudeDM(dec float64) string {
	dec = math.Max(-90, math.Min(90, dec))
	hemi := 'N'
	if dec < 0 {
		dec, hemi = -dec, 'S'
	}
	deg, min := splitMinutes(dec)
	return fmt.Sprintf("%02d%s%c", deg, min, hemi)
}

// LongitudeDM formats a longitude as DDDMM.MME or DDDMM.MMW.
func LongitudeDM(dec float64) string {
	dec = math.Max(-180, math.Min(180, dec))
	hemi := 'E'
	if dec < 0 {
		dec, hemi = -dec, 'W'
	}
	deg, min := splitMinutes(dec)
	return fmt.Sprintf("%03d%s%c", deg, min, hemi)
}

// splitMinutes returns whole degrees and minutes as exactly "MM.MM".
func splitMinutes(dec float64) (int, string) {
	deg := int(dec)
	min := fmt.Sprintf("%05.2f", (dec-float64(deg))*60)
	// 59.999 rounds up to 60.00.
	if min[0] == '6' {
		min = "00.00"
		deg++
	}
	return deg, min
}

// Ambiguate blanks the least significant digits of a formatted coordinate.
// Level 1 and 2 remove hundredths and tenths of minutes; 3 and 4 continue
// past the decimal point into whole minutes. Levels above 4 are treated
// as 4.
func Ambiguate(pos string, level int) string {
	if level <= 0 {
		return pos
	}
	if level > 4 {
		level = 4
	}
	n := level
	if level > 2 {
		n++
	}
	start := len(pos) - (n + 1)
	if start < 0 {
		start = 0
	}
	b := []byte(pos)
	for i := start; i < len(b)-1; i++ {
		if b[i] != '.' {
			b[i] = ' '
		}
	}
	return string(b)
}

// ParseLatitude reads DDMM.MMN back to decimal degrees. Ambiguity spaces
// are read as 5, the middle of the blanked range.
func ParseLatitude(s string) (float64, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("latitude %q: want 8 characters", s)
	}
	return parseDM(s[0:2], s[2:7], s[7], 'N', 'S')
}

// ParseLongitude reads DDDMM.MMW back to decimal degrees.
func ParseLongitude(s string) (float64, error) {
	if len(s) != 9 {
		return 0, fmt.Errorf("longitude %q: want 9 characters", s)
	}
	return parseDM(s[0:3], s[3:8], s[8], 'E', 'W')
}

func parseDM(degStr, minStr string, hemi, pos, neg byte) (float64, error) {
	minStr = strings.ReplaceAll(minStr, " ", "5")

	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0, err
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, err
	}

	dec := deg + min/60.0
	switch hemi {
	case pos, pos + ('a' - 'A'):
		return dec, nil
	case neg, neg + ('a' - 'A'):
		return -dec, nil
	default:
		return 0, fmt.Errorf("invalid hemisphere: %c", hemi)
	}
}

// Position is a position report without timestamp.
type Position struct {
	Latitude    float64
	Longitude   float64
	SymbolTable byte // '/' when zero
	Symbol      byte // '-' when zero
	Comment     string
	Ambiguity   int
	// Messaging selects '=' (station accepts messages) over '!'.
	Messaging bool
}

// Payload renders the information field bytes, e.g.
// !3746.44N/12225.88W>comment.
func (p Position) Payload() []byte {
	dti, table, symbol := byte('!'), p.SymbolTable, p.Symbol
	if p.Messaging {
		dti = '='
	}
	if table == 0 {
		table = '/'
	}
	if symbol == 0 {
		symbol = '-'
	}

	var b strings.Builder
	b.WriteByte(dti)
	b.WriteString(Ambiguate(LatitudeDM(p.Latitude), p.Ambiguity))
	b.WriteByte(table)
	b.WriteString(Ambiguate(LongitudeDM(p.Longitude), p.Ambiguity))
	b.WriteByte(symbol)
	b.WriteString(p.Comment)
	return []byte(b.String())
}

// Info wraps Payload as a locally produced information field.
func (p Position) Info() InformationField {
	c := CategoryPositionNoTSNoMsg
	if p.Messaging {
		c = CategoryPositionNoTSMsg
	}
	return NewInformationField(p.Payload(), c)
}
