package aprs

// StripKISS removes leading and trailing KISS data-frame command bytes and
// reports whether any were present. Escapes and multi-frame streams are
// handled by the transport (see device/kiss), not here.
func StripKISS(p []byte) ([]byte, bool) {
	wasKISS := false
	if len(p) > 0 && p[0] == KISSDataFrame {
		for len(p) > 0 && p[0] == KISSDataFrame {
			p = p[1:]
		}
		wasKISS = true
	}
	if len(p) > 0 && p[len(p)-1] == KISSDataFrame {
		for len(p) > 0 && p[len(p)-1] == KISSDataFrame {
			p = p[:len(p)-1]
		}
		wasKISS = true
	}
	return p, wasKISS
}

// WrapKISS prefixes p with the KISS data-frame command byte.
func WrapKISS(p []byte) []byte {
	out := make([]byte, 0, len(p)+1)
	out = append(out, KISSDataFrame)
	return append(out, p...)
}
