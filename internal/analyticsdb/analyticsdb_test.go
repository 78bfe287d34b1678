package analyticsdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ascendara/internal/diagnostics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analytics.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecentAcquisitions(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.RecordAcquisition("Celeste", "direct", 1024, 12, true, ""))
	require.NoError(t, store.RecordAcquisition("Hollow Knight", "hosthelper", 2048, 30, false, "connection reset"))

	records, err := store.RecentAcquisitions(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// most recent first
	require.Equal(t, "Hollow Knight", records[0].Game)
	require.False(t, records[0].Success)
	require.Equal(t, "connection reset", records[0].ErrorMessage)
}

func TestRecordAndRecentSpeedTests(t *testing.T) {
	store := openTestStore(t)

	result := &diagnostics.Result{
		DownloadMbps:   120.5,
		UploadMbps:     40.2,
		PingMs:         18,
		ServerName:     "Example ISP",
		ServerLocation: "Example ISP, US",
		ISP:            "Example ISP",
		Timestamp:      time.Now(),
	}
	require.NoError(t, store.RecordSpeedTest(result))

	records, err := store.RecentSpeedTests(5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.InDelta(t, 120.5, records[0].DownloadMbps, 0.001)
}

func TestAnalyticsAggregatesOnlySuccessfulAcquisitions(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.RecordAcquisition("Celeste", "direct", 1000, 5, true, ""))
	require.NoError(t, store.RecordAcquisition("Broken Game", "direct", 500, 5, false, "disk full"))

	summary, err := store.Analytics(7, t.TempDir())
	require.NoError(t, err)
	require.EqualValues(t, 1000, summary.TotalBytes)
	require.EqualValues(t, 1, summary.TotalSuccess)
	require.NotNil(t, summary.Disk)
}
