package extractor

import (
	"fmt"
	"os"
	"path/filepath"

	"ascendara/internal/sanitize"
)

// RetryFolder is the retry entry point from spec §4.4: given a
// candidate subdirectory name, it performs only the un-nesting step
// against it — copy the named folder to a temp location, remove the
// original, copy back into the install root, then purge .url shortcut
// and .txt readme files at any depth via RemoveShortcutsAndReadmes.
// Grounded directly on the source's retryfolder() in
// original_source/binaries/AscendaraDownloader/src/AscendaraDownloader.py,
// which does exactly this sequence as a standalone recovery path when
// the heuristic un-nesting in the main download flow failed to fire.
//
// Idempotent per spec §8 invariant 5: running it twice with the same
// argument leaves installDir identical to running it once, because
// once the folder has been lifted, candidateName no longer exists
// under installDir and the second call is a no-op.
func RetryFolder(installDir, candidateName string) error {
	candidateName = sanitize.FolderName(candidateName)
	candidatePath := filepath.Join(installDir, candidateName)

	if _, err := os.Stat(candidatePath); os.IsNotExist(err) {
		return nil // already lifted (or never existed) — idempotent no-op
	} else if err != nil {
		return fmt.Errorf("extractor: stat %s: %w", candidatePath, err)
	}

	tmp, err := os.MkdirTemp(installDir, "temp-*")
	if err != nil {
		return fmt.Errorf("extractor: create staging dir: %w", err)
	}
	if err := copyTree(candidatePath, tmp); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	if err := os.RemoveAll(candidatePath); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("extractor: remove %s: %w", candidatePath, err)
	}
	if err := copyTree(tmp, installDir); err != nil {
		return err
	}
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	return RemoveShortcutsAndReadmes(installDir)
}
