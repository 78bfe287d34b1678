package gamehandler

import (
	"fmt"
	"path/filepath"

	"ascendara/internal/statusdoc"
)

// documentHandle wraps whichever backing document (StatusDocument or
// CollectionIndex entry) owns a game, normalizing the handful of
// mutations the launch protocol needs into one shape regardless of
// which file ends up being written.
type documentHandle struct {
	gameName string

	// exactly one of these two is non-nil, selected by resolveDocument.
	status *statusDocOwner
	custom *collectionOwner
}

type statusDocOwner struct {
	path string
	doc  *statusdoc.StatusDocument
}

type collectionOwner struct {
	indexPath string
	index     *statusdoc.CollectionIndex
	entry     *statusdoc.CustomGameEntry
}

func resolveDocument(req Request) (*documentHandle, error) {
	if req.IsCustomGame {
		indexPath := statusdoc.IndexPath(req.DownloadDir)
		index := &statusdoc.CollectionIndex{}
		if statusdoc.Exists(indexPath) {
			if err := statusdoc.Read(indexPath, index); err != nil {
				return nil, fmt.Errorf("read collection index: %w", err)
			}
		}
		entry := index.Find(req.Game)
		if entry == nil {
			return nil, fmt.Errorf("no collection index entry for %q", req.Game)
		}
		return &documentHandle{
			gameName: req.Game,
			custom:   &collectionOwner{indexPath: indexPath, index: index, entry: entry},
		}, nil
	}

	path := statusdoc.Path(req.DownloadDir, req.Game)
	if !statusdoc.Exists(path) {
		return nil, fmt.Errorf("no status document for %q", req.Game)
	}
	doc := &statusdoc.StatusDocument{}
	if err := statusdoc.Read(path, doc); err != nil {
		return nil, fmt.Errorf("read status document: %w", err)
	}
	return &documentHandle{
		gameName: req.Game,
		status:   &statusDocOwner{path: path, doc: doc},
	}, nil
}

func (h *documentHandle) game() string { return h.gameName }

func (h *documentHandle) incrementLaunchCount() {
	if h.status != nil {
		h.status.doc.LaunchCount++
		return
	}
	h.custom.entry.LaunchCount++
}

func (h *documentHandle) decrementLaunchCount() {
	if h.status != nil {
		h.status.doc.LaunchCount--
		return
	}
	h.custom.entry.LaunchCount--
}

func (h *documentHandle) credit(seconds int) {
	if h.status != nil {
		h.status.doc.PlayTime += seconds
		return
	}
	h.custom.entry.PlayTime += seconds
}

func (h *documentHandle) setRunning(running bool) {
	if h.status != nil {
		h.status.doc.IsRunning = running
		return
	}
	h.custom.entry.IsRunning = running
}

func (h *documentHandle) setRunError(msg string) {
	if h.status != nil {
		h.status.doc.RunError = msg
		return
	}
	// CollectionIndex entries carry no runError field in spec §3;
	// custom-game launch failures surface only through isRunning
	// staying false.
}

func (h *documentHandle) save() error {
	if h.status != nil {
		return statusdoc.Write(h.status.path, h.status.doc)
	}
	return statusdoc.Write(h.custom.indexPath, h.custom.index)
}

func filepathDir(executablePath string) string {
	return filepath.Dir(executablePath)
}
