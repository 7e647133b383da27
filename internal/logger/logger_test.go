package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, WARN)

	l.Info("CATALOG", "loaded sample data")
	l.Warn("CATALOG", "remote catalog unavailable")

	out := buf.String()
	assert.NotContains(t, out, "loaded sample data")
	assert.Contains(t, out, "WARN  [CATALOG   ] remote catalog unavailable")
	assert.Contains(t, out, "logger_test.go")
}

func TestNopDropsEverything(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Error("X", "boom")
		l.LogBooking("CREATE", 1, "ignored")
		l.Close()
	})
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Info("X", "nothing") })
}

func TestFileOutputIsJSON(t *testing.T) {
	dir := t.TempDir()
	var term bytes.Buffer
	l, err := NewLogger(Options{Dir: dir, Service: "test", Terminal: &term, NoColor: true})
	require.NoError(t, err)

	l.LogFavorite("ADD", 5, "persisted")
	l.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "test-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	var found bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry.Category == "FAVORITES" {
			found = true
			assert.Equal(t, "INFO", entry.Level)
			assert.Equal(t, "[ADD] event 5 - persisted", entry.Message)
		}
	}
	assert.True(t, found)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel(" error "))
	assert.Equal(t, INFO, ParseLevel("chatty"))
}
