package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("skipped %d", 1)
	log.Warn("kept %s", "warn")
	log.Error("kept %s", "error")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "[WARN] kept warn")
	assert.Contains(t, out, "[ERROR] kept error")
}

func TestLogger_FatalExits(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	code := -1
	log.exit = func(c int) { code = c }
	log.Fatal("boom")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL] boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("unknown"))
}
