// Command ascendara-history is a supplemental peripheral worker, not
// named in the four-worker contract of spec §2: it prints the
// acquisition and speed-test history the other workers have been
// recording through internal/analyticsdb, for the front-end's history
// and disk-usage views.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"ascendara/internal/analyticsdb"
	"ascendara/internal/cliargs"
	"ascendara/internal/crashreporter"
	"ascendara/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log, closer, err := logger.New("history", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ascendara-history: failed to open log file:", err)
		return 1
	}
	defer closer.Close()

	reporter := crashreporter.New(log)
	defer crashreporter.Flush()

	positional, _ := cliargs.ParseFlags(os.Args[1:])
	destDir := ""
	if len(positional) > 0 {
		destDir = positional[0]
	}

	dbPath, err := analyticsdb.DefaultPath()
	if err != nil {
		crashreporter.Register(reporter, crashreporter.ToolTopLevel, crashreporter.CodeInvalidData, err.Error())
		log.Error("could not resolve analytics database path", "error", err)
		return 1
	}
	store, err := analyticsdb.Open(dbPath)
	if err != nil {
		crashreporter.Register(reporter, crashreporter.ToolTopLevel, crashreporter.CodeInvalidData, err.Error())
		log.Error("could not open analytics database", "error", err)
		return 1
	}
	defer store.Close()

	summary, err := store.Analytics(7, destDir)
	if err != nil {
		crashreporter.Register(reporter, crashreporter.ToolTopLevel, crashreporter.CodeInvalidData, err.Error())
		log.Error("failed to build analytics summary", "error", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Error("failed to encode summary", "error", err)
		return 1
	}
	return 0
}
