// Package extractor implements spec §4.4: archive extraction and the
// layout normalizer ("un-nesting") that flattens publisher-packaged
// directory structures, plus the retryfolder command that re-runs
// just the un-nesting step. Path-manipulation and collision-avoidance
// technique is grounded on the teacher's SmartOrganizer
// (internal/core/organizer.go) findAvailablePath, adapted from
// extension-based file categorization to game-install-directory
// flattening.
package extractor

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

// ExtractArchive extracts a .zip or .rar file into destDir, then
// removes the archive, per spec §4.4 step 2. zip uses the standard
// library; rar uses rardecode/v2 since the standard library has no
// RAR support and the teacher's own stack carries no archive format
// of its own.
func ExtractArchive(archivePath, destDir string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(archivePath), "."))
	switch ext {
	case "zip":
		if err := extractZip(archivePath, destDir); err != nil {
			return err
		}
	case "rar":
		if err := extractRar(archivePath, destDir); err != nil {
			return err
		}
	default:
		return fmt.Errorf("extractor: unsupported archive extension %q", ext)
	}
	return os.Remove(archivePath)
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("extractor: open zip %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractZipEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("extractor: open zip entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, f.Mode())
	if err != nil {
		return fmt.Errorf("extractor: create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extractor: write %s: %w", target, err)
	}
	return nil
}

func extractRar(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("extractor: open rar %s: %w", archivePath, err)
	}
	defer f.Close()

	r, err := rardecode.NewReader(f)
	if err != nil {
		return fmt.Errorf("extractor: read rar header %s: %w", archivePath, err)
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("extractor: next rar entry: %w", err)
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}
		if header.IsDir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("extractor: create %s: %w", target, err)
		}
		if _, err := io.Copy(dst, r); err != nil {
			dst.Close()
			return fmt.Errorf("extractor: write %s: %w", target, err)
		}
		dst.Close()
	}
	return nil
}

// safeJoin joins destDir and name, rejecting any entry that would
// escape destDir via "../" path traversal in the archive.
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
		return "", fmt.Errorf("extractor: entry %q escapes destination directory", name)
	}
	return target, nil
}
