package logging

import (
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLogLevel overrides the configured level when set to a known value.
const EnvLogLevel = "APRSKIT_LOG_LEVEL"

// Off disables all output.
const Off = log.Level(math.MaxInt32)

// New builds a logger writing to w at the given level. An unknown level
// falls back to info.
func New(level string, w io.Writer) *log.Logger {
	lvl, ok := ParseLevel(os.Getenv(EnvLogLevel))
	if !ok {
		lvl, _ = ParseLevel(level)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: Off})
}

// ParseLevel maps a level name to a log level. ok is false for empty or
// unknown input, in which case info is returned.
func ParseLevel(raw string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace", "debug":
		return log.DebugLevel, true
	case "info":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	case "off", "none", "disabled":
		return Off, true
	default:
		return log.InfoLevel, false
	}
}
