package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_JSONWithServiceFields(t *testing.T) {
	var buf bytes.Buffer
	l, flush := Build(Options{Level: "warn", JSON: true, Service: "studio-site-api", Env: "test", Out: &buf})
	l.Info("dropped")
	l.Warn("kept")
	flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "studio-site-api", entry["service"])
	assert.Equal(t, "test", entry["env"])
}

func TestBuild_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, flush := Build(Options{Level: "loud", JSON: true, Out: &buf})
	l.Debug("hidden")
	l.Info("shown")
	flush()
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestBuild_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	var buf bytes.Buffer
	l, flush := Build(Options{Level: "info", Out: &buf, Rotate: &FileRotate{Filename: path, MaxSizeMB: 1}})
	l.Info("to both sinks")
	flush()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"to both sinks"`)
	assert.Contains(t, buf.String(), "to both sinks")
}
