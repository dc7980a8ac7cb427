package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "json")

	log.Debug("hidden")
	log.Info("feed loaded", "items", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "feed loaded", entry["msg"])
	assert.EqualValues(t, 3, entry["items"])
}

func TestNew_TextDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, "text")

	log.Debug("normalizing", "shape", "array")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "shape=array")
}
