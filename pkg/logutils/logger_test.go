package logutils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markHook struct{}

func (markHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Bool("marked", true)
}

func TestNew_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "gantt.log")

	l, closer, err := New("info", file, nil, markHook{})
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("cmp", "test").Msg("visible")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "test", entry["cmp"])
	assert.Equal(t, true, entry["marked"])
}

func TestNew_AppendsToExistingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gantt.log")
	require.NoError(t, os.WriteFile(file, []byte("{\"message\":\"old\"}\n"), 0o644))

	l, closer, err := New("debug", file, nil)
	require.NoError(t, err)
	l.Info().Msg("new")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "old")
	assert.Contains(t, string(data), "new")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	l, closer, err := New("warn", "", &buf)
	require.NoError(t, err)
	defer closer()

	l.Info().Msg("quiet")
	l.Warn().Msg("seed fetch slow")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "seed fetch slow")
	assert.Contains(t, out, "WRN")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "", nil)
	require.Error(t, err)
	assert.NotNil(t, closer)
}
