package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestUnnestSingleWrapperDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "MyGame", "bin", "game.exe"), "exe")
	writeFile(t, filepath.Join(root, "MyGame", "data", "assets.pak"), "data")

	require.NoError(t, Unnest(root, "MyGame"))

	assert.FileExists(t, filepath.Join(root, "bin", "game.exe"))
	assert.FileExists(t, filepath.Join(root, "data", "assets.pak"))
	assert.NoDirExists(t, filepath.Join(root, "MyGame"))
}

func TestUnnestTwoLevelStructure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ABCD1234", "MyGame", "bin", "game.exe"), "exe")

	require.NoError(t, Unnest(root, "MyGame"))

	assert.FileExists(t, filepath.Join(root, "bin", "game.exe"))
	assert.NoDirExists(t, filepath.Join(root, "ABCD1234"))
}

func TestUnnestNoOpWhenAlreadyFlat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bin", "game.exe"), "exe")
	writeFile(t, filepath.Join(root, "data", "assets.pak"), "data")

	require.NoError(t, Unnest(root, "MyGame"))

	assert.FileExists(t, filepath.Join(root, "bin", "game.exe"))
}

func TestRemoveShortcutsAndReadmes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "install.url"), "[InternetShortcut]")
	writeFile(t, filepath.Join(root, "bin", "readme.txt"), "read me")
	writeFile(t, filepath.Join(root, "bin", "game.exe"), "exe")

	require.NoError(t, RemoveShortcutsAndReadmes(root))

	assert.NoFileExists(t, filepath.Join(root, "install.url"))
	assert.NoFileExists(t, filepath.Join(root, "bin", "readme.txt"))
	assert.FileExists(t, filepath.Join(root, "bin", "game.exe"))
}

func TestPruneEmptyDirsKeepsCommonRedist(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "_CommonRedist"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "emptydir"), 0o755))
	writeFile(t, filepath.Join(root, "bin", "game.exe"), "exe")

	require.NoError(t, PruneEmptyDirs(root))

	assert.DirExists(t, filepath.Join(root, "_CommonRedist"))
	assert.NoDirExists(t, filepath.Join(root, "emptydir"))
	assert.FileExists(t, filepath.Join(root, "bin", "game.exe"))
}

func TestRetryFolderIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Wrapper", "bin", "game.exe"), "exe")
	writeFile(t, filepath.Join(root, "Wrapper", "install.url"), "shortcut")

	require.NoError(t, RetryFolder(root, "Wrapper"))
	assert.FileExists(t, filepath.Join(root, "bin", "game.exe"))
	assert.NoFileExists(t, filepath.Join(root, "install.url"))
	assert.NoDirExists(t, filepath.Join(root, "Wrapper"))

	// Second run against the same candidate name is a no-op.
	require.NoError(t, RetryFolder(root, "Wrapper"))
	assert.FileExists(t, filepath.Join(root, "bin", "game.exe"))
}
