package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/seashell/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_disabled(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.LogFile = ""

	log, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, log)
	log.Info("discarded")
}

func TestNew_jsonLines(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)

	log, err := New(cfg)
	require.NoError(t, err)

	session := NewSession(log)
	assert.NotEmpty(t, session.SessionID)
	session.Info("hello")
	session.Debug("below level")
	_ = session.Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "seashell.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, session.SessionID, entry["session"])
}

func TestNew_badLevel(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.LogLevel = "loud"

	_, err := New(cfg)
	assert.Error(t, err)
}
