package cliargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolAcceptsSpecVocabulary(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "Yes"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"false", "FALSE", "0", "no"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestParseFlagsSplitsPositionalAndFlags(t *testing.T) {
	positional, flags := ParseFlags([]string{"a.bin", "--shortcut"})
	assert.Equal(t, []string{"a.bin"}, positional)
	assert.True(t, flags.Has("shortcut"))
	assert.Empty(t, flags.Get("shortcut"))
}

func TestParseFlagsWithValues(t *testing.T) {
	positional, flags := ParseFlags([]string{"url", "game", "--password", "hunter2", "--withNotification", "dark"})
	assert.Equal(t, []string{"url", "game"}, positional)
	assert.Equal(t, "hunter2", flags.Get("password"))
	assert.Equal(t, "dark", flags.Get("withNotification"))
}
