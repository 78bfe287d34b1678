package diagnostics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Run reaches real speedtest.net infrastructure and has no fake
// transport seam, the same shape the teacher's RunSpeedTest has (no
// network_test.go exists for it either); this only exercises the
// shape that Run's result is handed off in.
func TestResultMarshalsExpectedJSONShape(t *testing.T) {
	result := Result{
		DownloadMbps:   250.4,
		UploadMbps:     18.9,
		PingMs:         22,
		ServerName:     "Example Server",
		ServerLocation: "Example Server, US",
		ServerHost:     "speedtest.example.com:8080",
		ISP:            "Example ISP",
		Timestamp:      time.Now(),
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "downloadMbps")
	require.Contains(t, decoded, "uploadMbps")
	require.Contains(t, decoded, "pingMs")
	require.Contains(t, decoded, "isp")
}
