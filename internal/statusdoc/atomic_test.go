package statusdoc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, "MyGame")

	doc := &StatusDocument{
		Game:            "MyGame",
		Executable:      filepath.Join(dir, "MyGame", "MyGame.exe"),
		DownloadingData: NewAcquiringStub(),
	}
	require.NoError(t, Write(path, doc))
	assert.True(t, Exists(path))

	var got StatusDocument
	require.NoError(t, Read(path, &got))
	assert.Equal(t, "MyGame", got.Game)
	require.NotNil(t, got.DownloadingData)
	assert.True(t, got.DownloadingData.Downloading)
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, "MyGame")
	require.NoError(t, Write(path, &StatusDocument{Game: "MyGame"}))

	entries, err := filepath_glob(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e, ".ascendara-")
	}
}

func filepath_glob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "**", "*.tmp"))
}

func TestBlankOnError(t *testing.T) {
	doc := &StatusDocument{Game: "MyGame", Online: true, Version: "1.2.3"}
	doc.BlankOnError("content_type_error: link expired")
	assert.False(t, doc.Online)
	assert.Empty(t, doc.Version)
	require.NotNil(t, doc.DownloadingData)
	assert.True(t, doc.DownloadingData.Error)
	assert.Contains(t, doc.DownloadingData.Message, "content_type_error")
}

func TestCollectionIndexFind(t *testing.T) {
	idx := &CollectionIndex{Games: []CustomGameEntry{{Game: "A"}, {Game: "B"}}}
	assert.NotNil(t, idx.Find("B"))
	assert.Nil(t, idx.Find("C"))
}
