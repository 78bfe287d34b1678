// Command ascendara-host-helper is the Host Helper worker of spec
// §4.3: resolve a password-capable file host's share URL into a file
// tree, download every file sequentially, then extract and normalize
// the layout the same way the Direct Downloader does.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ascendara/internal/analyticsdb"
	"ascendara/internal/cliargs"
	"ascendara/internal/core"
	"ascendara/internal/crashreporter"
	"ascendara/internal/extractor"
	"ascendara/internal/hosthelper"
	"ascendara/internal/logger"
	"ascendara/internal/notify"
	"ascendara/internal/sanitize"
	"ascendara/internal/statusdoc"
)

func main() {
	os.Exit(run())
}

func run() int {
	log, closer, err := logger.New("gofilehelper", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ascendara-host-helper: failed to open log file:", err)
		return 1
	}
	defer closer.Close()

	reporter := crashreporter.New(log)
	defer crashreporter.Flush()

	positional, flags := cliargs.ParseFlags(os.Args[1:])
	if len(positional) < 8 {
		crashreporter.Register(reporter, crashreporter.ToolGoFileHelper, crashreporter.CodeInvalidData,
			"usage: url game online dlc isVr version size download_dir")
		log.Error("insufficient arguments", "got", len(positional))
		return 1
	}

	shareURL, rawGame, rawOnline, rawDLC, rawVR, version, size, downloadDir :=
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
		if err := history.RecordAcquisition(game, "hosthelper", bytes, elapsed, success, errMsg); err != nil {
			log.Warn("failed to record acquisition history", "error", err)
		}
	}

	doc := &statusdoc.StatusDocument{
		Game:    game,
		Online:  online,
		DLC:     dlc,
		IsVR:    isVR,
		Version: version,
		Size:    size,
	}
	if err := statusdoc.Write(statusPath, doc); err != nil {
		crashreporter.Register(reporter, crashreporter.ToolGoFileHelper, crashreporter.CodeHostHelperFileProcess, err.Error())
		log.Error("failed to write initial status document", "error", err)
		return 1
	}

	if flags.Has("withNotification") {
		notify.Spawn(flags.Get("withNotification"), "Download Starting", game, log)
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		doc.BlankOnError(fmt.Sprintf("failed to create install directory: %v", err))
		_ = statusdoc.Write(statusPath, doc)
		crashreporter.Register(reporter, crashreporter.ToolGoFileHelper, crashreporter.CodeHostHelperFileProcess, err.Error())
		log.Error("failed to create install directory", "error", err)
		return 1
	}

	ctx, stopSignals := core.SignalContext(context.Background())
	defer stopSignals()

	cancel := hosthelper.NewCancelFlag()
	go func() {
		<-ctx.Done()
		log.Info("signal received, cancelling host-helper download")
		cancel.Set()
	}()

	client := hosthelper.New()
	req := hosthelper.Request{
		ShareURL:   shareURL,
		Password:   flags.Get("password"),
		InstallDir: installDir,
		StatusPath: statusPath,
		Game:       game,
	}

	files, err := client.DownloadAll(req, cancel, log)
	if err != nil {
		code := crashreporter.CodeHostHelperTransfer
		if err == hosthelper.ErrCancelled {
			code = crashreporter.CodeHostHelperAPI
		}
		crashreporter.Register(reporter, crashreporter.ToolGoFileHelper, code, err.Error())
		log.Error("host-helper download failed", "error", err)
		recordOutcome(0, false, err.Error())
		return 1
	}
	log.Info("host-helper download complete", "game", game, "files", len(files))

	// Re-read: DownloadAll owns doc internally and already persisted
	// downloadingData.downloading=false; load it back before the extraction phase
	// mutates it further.
	if err := statusdoc.Read(statusPath, doc); err != nil {
		crashreporter.Register(reporter, crashreporter.ToolGoFileHelper, crashreporter.CodeHostHelperFileProcess, err.Error())
		log.Error("failed to reload status document", "error", err)
		return 1
	}

	doc.DownloadingData = statusdoc.NewAcquiringStub()
	doc.DownloadingData.Downloading = false
	doc.DownloadingData.Extracting = true
	_ = statusdoc.Write(statusPath, doc)

	if err := extractor.ExtractAll(installDir); err != nil {
		doc.BlankOnError(fmt.Sprintf("extraction failed: %v", err))
		_ = statusdoc.Write(statusPath, doc)
		crashreporter.Register(reporter, crashreporter.ToolGoFileHelper, crashreporter.CodeHostHelperFileProcess, err.Error())
		log.Error("extraction failed", "error", err)
		recordOutcome(0, false, err.Error())
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
		crashreporter.Register(reporter, crashreporter.ToolGoFileHelper, crashreporter.CodeHostHelperFileProcess, err.Error())
		log.Error("failed to write final status document", "error", err)
		recordOutcome(0, false, err.Error())
		return 1
	}

	if flags.Has("withNotification") {
		notify.Spawn(flags.Get("withNotification"), "Download Complete", game, log)
	}

	recordOutcome(0, true, "")
	log.Info("acquisition complete", "game", game)
	return 0
}
