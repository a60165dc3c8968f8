package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		logName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "orbitlogs",
			logName: "orbits",
			want:    filepath.Join("orbitlogs", "orbits.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./orbitlogs",
			logName: "orbits",
			want:    filepath.Join(".", "orbitlogs", "orbits.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "orbits"),
			logName: "orbits",
			want:    filepath.Join("/var", "log", "orbits", "orbits.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.logName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewZerolog(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "warn", "database")

	log.Info().Msg("filtered")
	log.Warn().Str("path", "x.db").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "database", entry["component"])
	assert.Equal(t, "x.db", entry["path"])
	assert.Contains(t, entry, "time")
}

func TestNewZerolog_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "loud", "influx")

	log.Debug().Msg("filtered")
	log.Info().Msg("kept")

	assert.NotContains(t, buf.String(), "filtered")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewGELFHandler(t *testing.T) {
	h, closer, err := NewGELFHandler("127.0.0.1:12201", ParseLevel("info"))
	require.NoError(t, err)
	require.NotNil(t, h)
	t.Cleanup(func() { closer.Close() })

	assert.True(t, h.Enabled(t.Context(), ParseLevel("error")))
	assert.False(t, h.Enabled(t.Context(), ParseLevel("debug")))
}

func TestNewGELFHandler_BadAddress(t *testing.T) {
	_, _, err := NewGELFHandler("not an address", ParseLevel("info"))
	require.Error(t, err)
}
