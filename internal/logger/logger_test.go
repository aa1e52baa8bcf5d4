package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output to a buffer and restores defaults afterwards.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden too")

	assert.Empty(t, buf.String())
}

func TestInfo_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Info("imported %d rows", 3)

	assert.Equal(t, "[INFO] imported 3 rows\n", buf.String())
}

func TestWarn_AlwaysWritten(t *testing.T) {
	buf := capture(t, false)

	Warn("skipping %s", "returns.csv")

	assert.Equal(t, "[WARN] skipping returns.csv\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, false)
	Section("Import")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Section("Import")
	assert.Equal(t, "\n=== Import ===\n", buf.String())
}

func TestEnabled(t *testing.T) {
	capture(t, false)
	assert.False(t, Enabled(LevelDebug))
	assert.False(t, Enabled(LevelInfo))
	assert.True(t, Enabled(LevelWarn))

	SetVerbose(true)
	assert.True(t, Enabled(LevelDebug))
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "LOG", Level(42).String())
}
