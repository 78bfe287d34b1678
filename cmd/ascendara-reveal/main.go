// Command ascendara-reveal is a supplemental peripheral worker, not
// named in the four-worker contract of spec §2: it opens the OS file
// manager on a completed install directory for the front-end's "show
// in folder" action.
package main

import (
	"fmt"
	"os"

	"ascendara/internal/core"
	"ascendara/internal/crashreporter"
	"ascendara/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log, closer, err := logger.New("reveal", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ascendara-reveal: failed to open log file:", err)
		return 1
	}
	defer closer.Close()

	reporter := crashreporter.New(log)
	defer crashreporter.Flush()

	if len(os.Args) < 2 {
		crashreporter.Register(reporter, crashreporter.ToolTopLevel, crashreporter.CodeInvalidData, "usage: path")
		log.Error("missing path argument")
		return 1
	}

	if err := core.OpenFolder(os.Args[1]); err != nil {
		crashreporter.Register(reporter, crashreporter.ToolTopLevel, crashreporter.CodeInvalidData, err.Error())
		log.Error("failed to open folder", "error", err)
		return 1
	}
	return 0
}
