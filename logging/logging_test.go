package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want log.Level
		ok   bool
	}{
		{"debug", log.DebugLevel, true},
		{" TRACE ", log.DebugLevel, true},
		{"info", log.InfoLevel, true},
		{"warning", log.WarnLevel, true},
		{"error", log.ErrorLevel, true},
		{"off", Off, true},
		{"", log.InfoLevel, false},
		{"loud", log.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}

func TestNewLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	var buf bytes.Buffer
	logger := New("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")

	var buf bytes.Buffer
	New("error", &buf).Debug("frame", "stage", "info")

	assert.Contains(t, buf.String(), "frame")
	assert.Contains(t, buf.String(), "stage=info")
}

func TestOff(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	var buf bytes.Buffer
	New("off", &buf).Error("nothing")
	assert.Empty(t, buf.String())
}
