package crashreporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterOverwritesPending(t *testing.T) {
	r := &Reporter{path: filepath.Join(t.TempDir(), "missing-reporter")}
	Register(r, ToolMainDownloader, CodeNetwork, "first")
	Register(r, ToolGameHandler, CodeUnknown, "second")

	mu.Lock()
	p := pending
	mu.Unlock()
	assert.Equal(t, ToolGameHandler, p.tool)
	assert.Equal(t, CodeUnknown, p.code)
	assert.Equal(t, "second", p.message)
}

func TestFlushWithoutReporterBinaryDoesNotPanic(t *testing.T) {
	r := &Reporter{path: filepath.Join(t.TempDir(), "missing-reporter")}
	Register(r, ToolMainDownloader, CodeNetwork, "boom")
	assert.NotPanics(t, Flush)
}

func TestNewResolvesNextToExecutable(t *testing.T) {
	r := New(nil)
	assert.NotEmpty(t, r.path)
	_, err := os.Stat(filepath.Dir(r.path))
	assert.NoError(t, err)
}
