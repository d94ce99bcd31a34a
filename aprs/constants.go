package aprs

// AX.25 wire constants.
const (
	// Flag separates frames on the link (01111110).
	AX25Flag byte = 0x7E
	// ControlUI is the control field of an unnumbered information frame.
	ControlUI byte = 0x03
	// PIDNoLayer3 is the protocol identifier for "no layer 3 protocol".
	PIDNoLayer3 byte = 0xF0
	// KISSDataFrame is the KISS command byte for a data frame on port 0.
	KISSDataFrame byte = 0x00
)

// AddrInfoDelim splits the addressing block from the information field.
var AddrInfoDelim = [2]byte{ControlUI, PIDNoLayer3}

// trailingSentinel is dropped from the end of an AX.25 information field.
var trailingSentinel = [2]byte{0xFF, 0x07}

// CRC-16/X.25 parameters for the bit-serial FCS engine.
const (
	fcsSeed       uint16 = 0xFFFF
	fcsPolynomial uint16 = 0x8408
)

const (
	addressLen   = 7
	callsignLen  = 6
	maxSSID      = 15
	minCallLen   = 3
	ssidBase     = 0x60
	digiBit      = 0x80
	minAddrBlock = 2 * addressLen
)

// maxServerIDLen bounds APRS-IS path names such as T2TEXAS or qAC.
const maxServerIDLen = 9

// APRS-IS defaults.
const (
	APRSISFilterPort = 14580
	APRSISRxPort     = 8080
	APRSISURL        = "http://srvr.aprs-is.net:8080"
	SoftwareName     = "aprskit"
	SoftwareVersion  = "0.1"
	// DefaultToCall is the destination used for frames this software originates.
	DefaultToCall = "APYT70"
	RecvBuffer    = 1024
)

// APRSISServers is the rotation tried when no server is configured.
var APRSISServers = []string{"rotate.aprs.net", "noam.aprs2.net"}
