package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	lg := NewLogger(&Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     &buf,
	})
	return lg, &buf
}

func TestParse(t *testing.T) {
	assert.Equal(t, DebugLevel, Parse("debug"))
	assert.Equal(t, WarnLevel, Parse("warn"))
	assert.Equal(t, InfoLevel, Parse(""))
	assert.Equal(t, InfoLevel, Parse("verbose"))
}

func TestNewLoggerDefaults(t *testing.T) {
	lg := NewLogger(nil)
	assert.NotNil(t, lg)
}

func TestInfoWritesMessage(t *testing.T) {
	lg, buf := newBufferLogger(InfoLevel)

	lg.Info("ledger loaded")

	assert.Contains(t, buf.String(), "ledger loaded")
}

func TestErrorIncludesCause(t *testing.T) {
	lg, buf := newBufferLogger(InfoLevel)

	lg.Error(errors.New("disk full"), "persist failed")

	out := buf.String()
	assert.Contains(t, out, "persist failed")
	assert.Contains(t, out, "disk full")
}

func TestDebugSuppressedBelowLevel(t *testing.T) {
	lg, buf := newBufferLogger(InfoLevel)

	lg.Debug("cache hit")

	assert.Empty(t, buf.String())
}

func TestWithFields(t *testing.T) {
	lg, buf := newBufferLogger(InfoLevel)

	lg.WithFields(map[string]interface{}{"port": 8080}).Info("server started")

	out := buf.String()
	assert.Contains(t, out, "server started")
	assert.Contains(t, out, "8080")
}
