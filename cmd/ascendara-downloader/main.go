// Command ascendara-downloader is the Direct Downloader worker of
// spec §4.2: fetch one archive by HTTPS URL, extract it, and normalize
// the resulting install layout, reporting progress through a
// StatusDocument the whole way.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ascendara/internal/analyticsdb"
	"ascendara/internal/cliargs"
	"ascendara/internal/config"
	"ascendara/internal/crashreporter"
	"ascendara/internal/diskspace"
	"ascendara/internal/downloader"
	"ascendara/internal/extractor"
	"ascendara/internal/logger"
	"ascendara/internal/notify"
	"ascendara/internal/sanitize"
	"ascendara/internal/statusdoc"
)

func main() {
	os.Exit(run())
}

func run() int {
	log, closer, err := logger.New("maindownloader", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ascendara-downloader: failed to open log file:", err)
		return 1
	}
	defer closer.Close()

	reporter := crashreporter.New(log)
	defer crashreporter.Flush()

	positional, flags := cliargs.ParseFlags(os.Args[1:])
	if len(positional) < 8 {
		crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeInvalidData,
			"usage: link game online dlc isVr version size download_dir")
		log.Error("insufficient arguments", "got", len(positional))
		return 1
	}

	link, rawGame, rawOnline, rawDLC, rawVR, version, size, downloadDir :=
		positional[0], positional[1], positional[2], positional[3], positional[4], positional[5], positional[6], positional[7]

	online, _ := cliargs.ParseBool(rawOnline)
	dlc, _ := cliargs.ParseBool(rawDLC)
	isVR, _ := cliargs.ParseBool(rawVR)

	game := sanitize.FolderName(rawGame)
	statusPath := statusdoc.Path(downloadDir, game)
	installDir := filepath.Join(downloadDir, game)
	acquisitionStart := time.Now()

	var history *analyticsdb.Store
	if dbPath, err := analyticsdb.DefaultPath(); err == nil {
		if store, err := analyticsdb.Open(dbPath); err == nil {
			history = store
			defer history.Close()
		} else {
			log.Warn("analytics history unavailable", "error", err)
		}
	}
	recordOutcome := func(bytes int64, success bool, errMsg string) {
		if history == nil {
			return
		}
		elapsed := int64(time.Since(acquisitionStart).Seconds())
		if err := history.RecordAcquisition(game, "direct", bytes, elapsed, success, errMsg); err != nil {
			log.Warn("failed to record acquisition history", "error", err)
		}
	}

	doc := &statusdoc.StatusDocument{
		Game:            game,
		Online:          online,
		DLC:             dlc,
		IsVR:            isVR,
		Version:         version,
		Size:            size,
		DownloadingData: statusdoc.NewAcquiringStub(),
	}
	if err := statusdoc.Write(statusPath, doc); err != nil {
		crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeDownloaderSettingsIO, err.Error())
		log.Error("failed to write initial status document", "error", err)
		return 1
	}

	if flags.Has("withNotification") {
		notify.Spawn(flags.Get("withNotification"), "Download Starting", game, log)
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		doc.BlankOnError(fmt.Sprintf("failed to create install directory: %v", err))
		_ = statusdoc.Write(statusPath, doc)
		crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeDownloaderInit, err.Error())
		log.Error("failed to create install directory", "error", err)
		return 1
	}

	engine := downloader.New()
	probe, err := downloader.Probe(engine.Client(), link)
	if err != nil {
		doc.BlankOnError(fmt.Sprintf("failed to probe download link: %v", err))
		_ = statusdoc.Write(statusPath, doc)
		crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeNetwork, err.Error())
		log.Error("probe failed", "error", err)
		recordOutcome(0, false, err.Error())
		return 1
	}

	if probe.Size > 0 {
		if err := diskspace.CheckAvailable(installDir, probe.Size); err != nil {
			doc.BlankOnError(err.Error())
			_ = statusdoc.Write(statusPath, doc)
			crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeDownloaderInit, err.Error())
			log.Error("insufficient disk space", "error", err)
			recordOutcome(0, false, err.Error())
			return 1
		}
	}

	archivePath := filepath.Join(installDir, game+"."+probe.Extension)
	reporterStatus := downloader.NewStatusReporter(statusPath, doc, log)

	workerCount := config.DefaultThreadCount
	if settings, err := config.Load(); err == nil {
		workerCount = settings.ThreadCount()
	} else {
		log.Warn("failed to load settings, using default thread count", "error", err)
	}

	ctx := context.Background()
	result, err := engine.Download(ctx, downloader.Config{
		URL:         link,
		DestPath:    archivePath,
		WorkerCount: workerCount,
		OnProgress:  reporterStatus.OnProgress,
	}, probe)
	if err != nil {
		doc.BlankOnError(fmt.Sprintf("download failed: %v", err))
		_ = statusdoc.Write(statusPath, doc)
		crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeDownloaderProgress, err.Error())
		log.Error("download failed", "error", err)
		recordOutcome(0, false, err.Error())
		return 1
	}
	log.Info("download complete", "game", game, "bytes", result.Size)

	doc.DownloadingData.Downloading = false
	doc.DownloadingData.Extracting = true
	_ = statusdoc.Write(statusPath, doc)

	if err := extractor.ExtractAll(installDir); err != nil {
		doc.BlankOnError(fmt.Sprintf("extraction failed: %v", err))
		_ = statusdoc.Write(statusPath, doc)
		crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeDownloaderExtract, err.Error())
		log.Error("extraction failed", "error", err)
		recordOutcome(result.Size, false, err.Error())
		return 1
	}
	if err := extractor.Unnest(installDir, game); err != nil {
		log.Warn("layout normalization failed, leaving as-is for retryfolder", "error", err)
	}
	if err := extractor.PruneEmptyDirs(installDir); err != nil {
		log.Warn("failed to prune empty directories", "error", err)
	}

	doc.DownloadingData = nil
	if err := statusdoc.Write(statusPath, doc); err != nil {
		crashreporter.Register(reporter, crashreporter.ToolMainDownloader, crashreporter.CodeDownloaderSettingsIO, err.Error())
		log.Error("failed to write final status document", "error", err)
		recordOutcome(result.Size, false, err.Error())
		return 1
	}

	if flags.Has("withNotification") {
		notify.Spawn(flags.Get("withNotification"), "Download Complete", game, log)
	}

	recordOutcome(result.Size, true, "")
	log.Info("acquisition complete", "game", game)
	return 0
}
