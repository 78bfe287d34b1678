// Package diagnostics runs an on-demand network speed test, a
// capability the front-end surfaces when a download is unexpectedly
// slow. It adapts the teacher's internal/core/network.go
// RunSpeedTest almost verbatim; this spec has no "engine" object to
// hang the test on, so it is exposed as a standalone function instead
// of a method.
package diagnostics

import (
	"context"
	"fmt"
	"time"

	"github.com/showwin/speedtest-go/speedtest"
)

// Result is the outcome of one speed test, stamped into the log and
// optionally surfaced to the front-end.
type Result struct {
	DownloadMbps   float64   `json:"downloadMbps"`
	UploadMbps     float64   `json:"uploadMbps"`
	PingMs         int64     `json:"pingMs"`
	ServerName     string    `json:"serverName"`
	ServerLocation string    `json:"serverLocation"`
	ServerHost     string    `json:"serverHost"`
	ISP            string    `json:"isp"`
	Timestamp      time.Time `json:"timestamp"`
}

// Run performs a speed test against the nearest available server,
// timing out after 30 seconds total.
func Run(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	user, err := speedtest.FetchUserInfo()
	if err != nil {
		return nil, fmt.Errorf("diagnostics: no internet connection: %w", err)
	}

	serverList, err := speedtest.FetchServers()
	if err != nil {
		return nil, fmt.Errorf("diagnostics: fetch servers: %w", err)
	}

	targets, err := serverList.FindServer([]int{})
	if err != nil || len(targets) == 0 {
		return nil, fmt.Errorf("diagnostics: no speed test servers available")
	}
	server := targets[0]

	if err := server.PingTestContext(ctx, nil); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("diagnostics: speed test timed out during ping")
		}
		return nil, fmt.Errorf("diagnostics: ping test: %w", err)
	}
	if err := server.DownloadTestContext(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("diagnostics: speed test timed out during download")
		}
		return nil, fmt.Errorf("diagnostics: download test: %w", err)
	}
	if err := server.UploadTestContext(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("diagnostics: speed test timed out during upload")
		}
		return nil, fmt.Errorf("diagnostics: upload test: %w", err)
	}

	return &Result{
		DownloadMbps:   float64(server.DLSpeed) / 1000 / 1000 * 8,
		UploadMbps:     float64(server.ULSpeed) / 1000 / 1000 * 8,
		PingMs:         int64(server.Latency.Milliseconds()),
		ServerName:     server.Name,
		ServerLocation: fmt.Sprintf("%s, %s", server.Name, server.Country),
		ServerHost:     server.Host,
		ISP:            user.Isp,
		Timestamp:      time.Now(),
	}, nil
}
