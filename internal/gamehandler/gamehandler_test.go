package gamehandler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascendara/internal/statusdoc"
)

func writeScript(t *testing.T, dir, name, sleepSeconds string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("script fixture is POSIX-shell only")
	}
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\nsleep " + sleepSeconds + "\nexit 0\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeStatusDocument(t *testing.T, downloadDir, game string) {
	t.Helper()
	path := statusdoc.Path(downloadDir, game)
	doc := &statusdoc.StatusDocument{Game: game, Executable: game + ".bin"}
	require.NoError(t, statusdoc.Write(path, doc))
}

func TestRunCreditsPlayTimeForLongerLivedProcess(t *testing.T) {
	downloadDir := t.TempDir()
	game := "Slow Game"
	writeStatusDocument(t, downloadDir, game)
	exe := writeScript(t, t.TempDir(), "slowgame.sh", "2")

	req := Request{Game: game, ExecutablePath: exe, DownloadDir: downloadDir}
	elapsed, err := Run(context.Background(), req, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 2*time.Second)

	var doc statusdoc.StatusDocument
	require.NoError(t, statusdoc.Read(statusdoc.Path(downloadDir, game), &doc))
	assert.False(t, doc.IsRunning)
	assert.Equal(t, 1, doc.LaunchCount)
	assert.GreaterOrEqual(t, doc.PlayTime, 1)
}

func TestRunNetsZeroPlayTimeForSubSecondExit(t *testing.T) {
	downloadDir := t.TempDir()
	game := "Instant Crash"
	writeStatusDocument(t, downloadDir, game)
	exe := writeScript(t, t.TempDir(), "instant.sh", "0")

	req := Request{Game: game, ExecutablePath: exe, DownloadDir: downloadDir}
	_, err := Run(context.Background(), req, nil)
	require.NoError(t, err)

	var doc statusdoc.StatusDocument
	require.NoError(t, statusdoc.Read(statusdoc.Path(downloadDir, game), &doc))
	assert.Equal(t, 0, doc.PlayTime)
	assert.Equal(t, 1, doc.LaunchCount)
	assert.False(t, doc.IsRunning)
}

func TestRunSetsRunErrorWhenExecutableMissing(t *testing.T) {
	downloadDir := t.TempDir()
	game := "Missing Exe"
	writeStatusDocument(t, downloadDir, game)

	req := Request{Game: game, ExecutablePath: filepath.Join(downloadDir, "nope.bin"), DownloadDir: downloadDir}
	_, err := Run(context.Background(), req, nil)
	assert.Error(t, err)

	var doc statusdoc.StatusDocument
	require.NoError(t, statusdoc.Read(statusdoc.Path(downloadDir, game), &doc))
	assert.NotEmpty(t, doc.RunError)
	assert.Equal(t, 0, doc.LaunchCount)
}

func TestRunReturnsErrorWhenNoDocumentExists(t *testing.T) {
	downloadDir := t.TempDir()
	req := Request{Game: "Nonexistent", ExecutablePath: "/bin/true", DownloadDir: downloadDir}
	_, err := Run(context.Background(), req, nil)
	assert.Error(t, err)
}
