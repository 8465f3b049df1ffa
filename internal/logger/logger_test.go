package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "info")

	l.Info("account locked", "user_id", 7)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "account locked", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestSetup_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "warn")

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel_Unknown(t *testing.T) {
	assert.Equal(t, "INFO", parseLevel("verbose").String())
	assert.Equal(t, "DEBUG", parseLevel("DEBUG").String())
}
