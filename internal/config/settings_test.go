package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempConfigDir(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if os.Getenv("HOME") == "" {
		t.Setenv("HOME", t.TempDir())
	}
}

func TestLoadAppliesDefaultsWhenMissing(t *testing.T) {
	withTempConfigDir(t)
	m, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultThreadCount, m.ThreadCount())
	assert.Equal(t, DefaultHostHelperThreadCount, m.HostHelperThreadCount())
	assert.False(t, m.IsRunning("anything"))
}

func TestSetRunningRoundTrips(t *testing.T) {
	withTempConfigDir(t)
	m, err := Load()
	require.NoError(t, err)

	require.NoError(t, m.SetRunning("MyGame", "/opt/games/MyGame/MyGame.exe"))
	assert.True(t, m.IsRunning("MyGame"))

	reloaded, err := Load()
	require.NoError(t, err)
	assert.True(t, reloaded.IsRunning("MyGame"))

	require.NoError(t, m.SetRunning("MyGame", ""))
	assert.False(t, m.IsRunning("MyGame"))
}
