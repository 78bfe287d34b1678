package hosthelper

import (
	"fmt"
	"log/slog"

	"ascendara/internal/diskspace"
	"ascendara/internal/statusdoc"
)

// Request bundles everything the host helper needs to resolve a share
// and download it into an install directory, per spec §4.3.
type Request struct {
	ShareURL     string
	Password     string
	InstallDir   string
	StatusPath   string
	Game         string
}

// DownloadAll resolves the share's file tree, probes the aggregate
// size, and downloads every file sequentially (step 7 — the host
// rate-limits aggressively, so files are never fetched concurrently),
// crediting an AggregateProgress tracker after every chunk and
// honoring cancel for cooperative shutdown. It returns the resolved
// file list so the caller can verify completeness, per spec §4.3
// step 10.
func (c *Client) DownloadAll(req Request, cancel *CancelFlag, log *slog.Logger) ([]FileRecord, error) {
	contentID := ContentIDFromURL(req.ShareURL)
	passwordHash := ""
	if req.Password != "" {
		passwordHash = HashPassword(req.Password)
	}

	doc := &statusdoc.StatusDocument{Game: req.Game, DownloadingData: statusdoc.NewAcquiringStub()}
	doc.DownloadingData.Downloading = true
	writeStatus(req.StatusPath, doc, log)

	files, err := c.ResolveTree(contentID, passwordHash)
	if err != nil {
		doc.BlankOnError(fmt.Sprintf("failed to resolve host contents: %v", err))
		writeStatus(req.StatusPath, doc, log)
		return nil, err
	}
	if log != nil {
		log.Info("resolved host share", "files", len(files), "contentID", contentID)
	}

	total, already, err := c.ProbeTotalSize(files, req.InstallDir)
	if err != nil {
		doc.BlankOnError(fmt.Sprintf("failed to probe share size: %v", err))
		writeStatus(req.StatusPath, doc, log)
		return nil, err
	}

	if remaining := total - already; remaining > 0 {
		if err := diskspace.CheckAvailable(req.InstallDir, remaining); err != nil {
			doc.BlankOnError(err.Error())
			writeStatus(req.StatusPath, doc, log)
			return nil, err
		}
	}

	agg := NewAggregateProgress(req.StatusPath, doc, total, log)
	agg.lastSum = already

	for _, f := range files {
		if cancel != nil && cancel.IsSet() {
			doc.BlankOnError("download cancelled")
			writeStatus(req.StatusPath, doc, log)
			return nil, ErrCancelled
		}
		key := f.Path + "/" + f.Filename
		err := c.DownloadFile(f, req.InstallDir, cancel, func(filename string, downloaded, fileTotal int64) {
			agg.Report(key, downloaded, fileTotal)
		})
		if err != nil {
			if err == ErrCancelled {
				doc.BlankOnError("download cancelled")
			} else {
				doc.BlankOnError(fmt.Sprintf("failed to download %s: %v", f.Filename, err))
			}
			writeStatus(req.StatusPath, doc, log)
			return nil, err
		}
	}

	doc.DownloadingData.Downloading = false
	doc.DownloadingData.ProgressCompleted = "100.00"
	writeStatus(req.StatusPath, doc, log)

	return files, nil
}

// writeStatus persists doc and logs a warning on failure rather than
// discarding the error: statusdoc.Write already retries transient
// sharing violations internally, so an error here means a persistent
// failure (disk full, permanent permission error) that would
// otherwise leave a multi-minute acquisition with no visible signal.
func writeStatus(path string, doc *statusdoc.StatusDocument, log *slog.Logger) {
	if err := statusdoc.Write(path, doc); err != nil && log != nil {
		log.Warn("failed to write status document", "path", path, "error", err)
	}
}
