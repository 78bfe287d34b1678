// Command ascendara-diagnostics is a supplemental peripheral worker,
// grounded on the teacher's network speed test and not named in the
// four-worker contract of spec §2: it runs an on-demand speed test and
// prints the result as JSON, for the front-end to surface when a
// download looks abnormally slow.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ascendara/internal/analyticsdb"
	"ascendara/internal/crashreporter"
	"ascendara/internal/diagnostics"
	"ascendara/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log, closer, err := logger.New("diagnostics", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ascendara-diagnostics: failed to open log file:", err)
		return 1
	}
	defer closer.Close()

	reporter := crashreporter.New(log)
	defer crashreporter.Flush()

	result, err := diagnostics.Run(context.Background())
	if err != nil {
		crashreporter.Register(reporter, crashreporter.ToolTopLevel, crashreporter.CodeNetwork, err.Error())
		log.Error("speed test failed", "error", err)
		return 1
	}

	if dbPath, err := analyticsdb.DefaultPath(); err == nil {
		if store, err := analyticsdb.Open(dbPath); err == nil {
			if err := store.RecordSpeedTest(result); err != nil {
				log.Warn("failed to record speed test history", "error", err)
			}
			store.Close()
		} else {
			log.Warn("analytics history unavailable", "error", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error("failed to encode result", "error", err)
		return 1
	}

	log.Info("speed test complete", "downloadMbps", result.DownloadMbps, "uploadMbps", result.UploadMbps)
	return 0
}
