package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, time.Second, cfg.Serial.ReadTimeout)
	assert.False(t, cfg.Serial.Reassemble)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, ":8989", cfg.WS.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TTT_SERIAL_BAUD_RATE", "115200")
	t.Setenv("TTT_WS_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, ":9090", cfg.WS.Addr)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("serial:\n  port: /dev/ttyACM0\n  baud_rate: 115200\n  reassemble: true\npoll:\n  interval: 250ms\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.True(t, cfg.Serial.Reassemble)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.Interval)
	// Unset keys keep their defaults.
	assert.Equal(t, ":8989", cfg.WS.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsBadBaudRate(t *testing.T) {
	t.Setenv("TTT_SERIAL_BAUD_RATE", "-1")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baud_rate")
}
