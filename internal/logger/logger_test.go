package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	t.Cleanup(func() { _ = Setup(DefaultConfig()) })

	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	log := WithDocument("cmm", "675-0001.pdf")
	log.Info().Int("entries", 3).Msg("Report parsed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line))
	assert.Equal(t, "cmm", line["component"])
	assert.Equal(t, "675-0001.pdf", line["document"])
	assert.Equal(t, float64(3), line["entries"])
	assert.Equal(t, "Report parsed", line["message"])
}

func TestSetup_InvalidLevel(t *testing.T) {
	assert.Error(t, Setup(LogConfig{Level: "loud"}))
}

func TestOpenOutput(t *testing.T) {
	w, err := openOutput("")
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)

	w, err = openOutput("stdout")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)

	_, err = openOutput(filepath.Join(t.TempDir(), "missing", "app.log"))
	assert.Error(t, err)
}
