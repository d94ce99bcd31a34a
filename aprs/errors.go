package aprs

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedText       = errors.New("aprs: malformed text frame")
	ErrMalformedAddressing = errors.New("aprs: malformed addressing field")
	ErrInvalidCallsign     = errors.New("aprs: invalid callsign")
	ErrUnknownCategory     = errors.New("aprs: unknown information category")
	ErrChecksumMismatch    = errors.New("aprs: frame check sequence mismatch")
)

// ParseError records which stage of a frame parse failed.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	return &ParseError{Stage: stage, Err: err}
}

var (
	ErrBitStuffing = errors.New("aprs: bit-stuffing violation")
	ErrMissingFlag = errors.New("aprs: missing frame flag")
)
