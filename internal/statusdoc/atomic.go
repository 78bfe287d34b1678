package statusdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	writeRetries  = 3
	writeBackoff  = time.Second
)

// Write serializes v to a freshly-created temporary file in the same
// directory as path, closes it, then attempts to rename it onto path.
// A same-directory rename is the only portable primitive that is both
// atomic within a filesystem and visible to subsequent opens without
// FS-specific sync — see spec §4.1. Readers (the front-end poller, the
// host helper, the handler) therefore either see the prior bytes or
// the new bytes in full, never a partial write.
//
// On a sharing-violation class of error the rename is retried up to
// writeRetries times with a one-second pause, which is long enough for
// a transient antivirus or indexing handle to release the file. The
// temp file is removed on every exit path if it still exists.
func Write(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("statusdoc: create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("statusdoc: marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ascendara-*.tmp")
	if err != nil {
		return fmt.Errorf("statusdoc: create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("statusdoc: write temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("statusdoc: close temp file for %s: %w", path, err)
	}

	var renameErr error
	for attempt := 0; attempt < writeRetries; attempt++ {
		renameErr = os.Rename(tmpPath, path)
		if renameErr == nil {
			return nil
		}
		if !isSharingViolation(renameErr) {
			break
		}
		if attempt < writeRetries-1 {
			time.Sleep(writeBackoff)
		}
	}
	return fmt.Errorf("statusdoc: replace %s: %w", path, renameErr)
}

// Read parses the JSON document at path into v. Unknown fields are
// ignored, and callers tolerate transiently missing optional fields
// per spec §9.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("statusdoc: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("statusdoc: parse %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a document exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isSharingViolation(err error) bool {
	// os.Rename across a file held open by another process (AV scan,
	// indexer) surfaces as a permission error on every platform Go
	// targets here; there is no portable errno-level distinction for
	// "sharing violation" beyond that.
	return errors.Is(err, os.ErrPermission) || errors.Is(err, os.ErrExist)
}
