// Command ascendara-game-handler is the Game Handler worker of spec
// §4.5: launch an installed game detached, track its liveness, and
// accumulate play time and launch count.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ascendara/internal/cliargs"
	"ascendara/internal/config"
	"ascendara/internal/crashreporter"
	"ascendara/internal/gamehandler"
	"ascendara/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log, closer, err := logger.New("gamehandler", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ascendara-game-handler: failed to open log file:", err)
		return 1
	}
	defer closer.Close()

	reporter := crashreporter.New(log)
	defer crashreporter.Flush()

	positional, flags := cliargs.ParseFlags(os.Args[1:])
	if len(positional) < 2 {
		crashreporter.Register(reporter, crashreporter.ToolGameHandler, crashreporter.CodeInvalidData,
			"usage: game_path is_custom_game [--shortcut]")
		log.Error("insufficient arguments", "got", len(positional))
		return 1
	}
	executablePath, rawIsCustom := positional[0], positional[1]
	isCustom, _ := cliargs.ParseBool(rawIsCustom)

	settings, err := config.Load()
	if err != nil {
		crashreporter.Register(reporter, crashreporter.ToolGameHandler, crashreporter.CodeHandlerConfigRead, err.Error())
		log.Error("failed to load settings", "error", err)
		return 1
	}
	downloadDir := settings.DownloadDirectory()
	if downloadDir == "" {
		crashreporter.Register(reporter, crashreporter.ToolGameHandler, crashreporter.CodeHandlerMissingDownloadDir,
			"no download directory configured")
		log.Error("no download directory configured")
		return 1
	}

	req := gamehandler.Request{
		Game:           gameNameFromPath(executablePath),
		ExecutablePath: executablePath,
		IsCustomGame:   isCustom,
		WithShortcut:   flags.Has("shortcut"),
		DownloadDir:    downloadDir,
		Settings:       settings,
	}

	elapsed, err := gamehandler.Run(context.Background(), req, log)
	if err != nil {
		crashreporter.Register(reporter, crashreporter.ToolGameHandler, crashreporter.CodeHandlerLaunchFailure, err.Error())
		log.Error("game launch failed", "error", err)
		return 1
	}

	log.Info("game session ended", "game", req.Game, "elapsed", elapsed)
	return 0
}

// gameNameFromPath derives the game key used to look up its
// StatusDocument/CollectionIndex entry from the executable's parent
// directory name — the same convention the install pipeline uses when
// it lays the executable under <download_dir>/<game>/.
func gameNameFromPath(executablePath string) string {
	return filepath.Base(filepath.Dir(executablePath))
}
