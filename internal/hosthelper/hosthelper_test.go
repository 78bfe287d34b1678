package hosthelper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascendara/internal/statusdoc"
)

func TestNormalizeShareURL(t *testing.T) {
	assert.Equal(t, "https://gofile.io/d/abc123", NormalizeShareURL("https://gofile.io/d/abc123"))
	assert.Equal(t, "https://gofile.io/d/abc123", NormalizeShareURL("//gofile.io/d/abc123"))
}

func TestContentIDFromURL(t *testing.T) {
	assert.Equal(t, "abc123", ContentIDFromURL("https://gofile.io/d/abc123"))
	assert.Equal(t, "abc123", ContentIDFromURL("https://gofile.io/d/abc123/"))
}

func TestHashPasswordIsDeterministicSHA256(t *testing.T) {
	h1 := HashPassword("hunter2")
	h2 := HashPassword("hunter2")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashPassword("other"))
}

func newTestClient() *Client {
	c := &Client{httpClient: http.DefaultClient}
	c.tokenOnce.Do(func() { c.token = "test-token" })
	return c
}

func TestDownloadFileFreshAndResume(t *testing.T) {
	content := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader := r.Header.Get("Range")
		if rangeHeader == "" {
			w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)))
			w.WriteHeader(http.StatusOK)
			w.Write(content)
			return
		}
		var start int
		fmt.Sscanf(rangeHeader, "bytes=%d-", &start)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)-start))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(content[start:])
	}))
	defer srv.Close()

	c := newTestClient()
	installDir := t.TempDir()
	f := FileRecord{Path: "sub", Filename: "file.bin", Link: srv.URL}

	var lastDownloaded int64
	err := c.DownloadFile(f, installDir, nil, func(filename string, downloaded, total int64) {
		lastDownloaded = downloaded
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), lastDownloaded)

	finalPath := filepath.Join(installDir, "sub", "file.bin")
	got, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// Re-downloading a complete file is a skip-and-resume no-op.
	called := false
	err = c.DownloadFile(f, installDir, nil, func(filename string, downloaded, total int64) { called = true })
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDownloadFileResumesFromPartialPartFile(t *testing.T) {
	content := []byte("the quick brown fox jumps over the lazy dog")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader := r.Header.Get("Range")
		require.NotEmpty(t, rangeHeader, "expected a Range request honoring the existing .part file")
		var start int
		fmt.Sscanf(rangeHeader, "bytes=%d-", &start)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)-start))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(content[start:])
	}))
	defer srv.Close()

	c := newTestClient()
	installDir := t.TempDir()
	f := FileRecord{Path: "", Filename: "out.bin", Link: srv.URL}

	destDir := filepath.Join(installDir)
	require.NoError(t, os.MkdirAll(destDir, 0o755))
	partPath := filepath.Join(destDir, "out.bin.part")
	require.NoError(t, os.WriteFile(partPath, content[:10], 0o644))

	err := c.DownloadFile(f, installDir, nil, nil)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(installDir, "out.bin"))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDownloadFileHonorsCancelFlag(t *testing.T) {
	content := make([]byte, 1<<20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)))
		w.WriteHeader(http.StatusOK)
		w.Write(content)
	}))
	defer srv.Close()

	c := newTestClient()
	installDir := t.TempDir()
	f := FileRecord{Path: "", Filename: "big.bin", Link: srv.URL}

	cancel := NewCancelFlag()
	cancel.Set()

	err := c.DownloadFile(f, installDir, cancel, nil)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.NoFileExists(t, filepath.Join(installDir, "big.bin.part"))
}

func TestAggregateProgressSumsAcrossFiles(t *testing.T) {
	doc := &statusdoc.StatusDocument{Game: "Test Game"}
	path := filepath.Join(t.TempDir(), "status.json")
	agg := NewAggregateProgress(path, doc, 1000, nil)

	agg.Report("a/1.bin", 100, 500)
	agg.Report("b/2.bin", 200, 500)
	agg.Report("a/1.bin", 300, 500)

	require.NotNil(t, doc.DownloadingData)
	assert.Equal(t, "50.00", doc.DownloadingData.ProgressCompleted)
	assert.FileExists(t, path)
}
