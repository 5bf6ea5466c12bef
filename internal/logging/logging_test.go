package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)
	log.Debug("stream complete", "chunks", 16)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "stream complete", rec["msg"])
	assert.Equal(t, float64(16), rec["chunks"])
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "text", &buf)
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("loud", "text", &buf)
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
