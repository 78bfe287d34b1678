package extractor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExtractAll walks installDir, extracting and deleting every .zip or
// .rar it finds (per spec §4.4 step 2), then removes extracted .url
// and .txt files at any depth (step 3).
func ExtractAll(installDir string) error {
	var archives []string
	err := filepath.WalkDir(installDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".zip" || ext == ".rar" {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("extractor: walk %s: %w", installDir, err)
	}

	for _, archive := range archives {
		if err := ExtractArchive(archive, filepath.Dir(archive)); err != nil {
			return err
		}
	}
	return RemoveShortcutsAndReadmes(installDir)
}

// RemoveShortcutsAndReadmes deletes .url shortcut files and .txt
// readme files at any depth, per spec §4.4 step 3.
func RemoveShortcutsAndReadmes(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".url" || ext == ".txt" {
			return os.Remove(path)
		}
		return nil
	})
}

// Unnest lifts the contents of a single wrapper directory up to
// installDir's root, per spec §4.4 step 4: either a single
// subdirectory whose name matches game (case-insensitive), or a
// two-level <opaque-id>/<game> structure. It copies the inner
// directory's contents to a temp location, removes the original, then
// copies back into the install root, overwriting or removing any
// colliding entries — the same copy/remove/copy-back technique as the
// teacher's SmartOrganizer findAvailablePath collision handling,
// applied to directory contents instead of a single file.
func Unnest(installDir, game string) error {
	inner, err := findWrapperDir(installDir, game)
	if err != nil || inner == "" {
		return err
	}
	return liftDirectory(installDir, inner)
}

// findWrapperDir locates the single- or two-level wrapper directory
// described in spec §4.4 step 4, or returns "" if the install
// directory is already flat.
func findWrapperDir(installDir, game string) (string, error) {
	entries, err := os.ReadDir(installDir)
	if err != nil {
		return "", fmt.Errorf("extractor: read %s: %w", installDir, err)
	}

	var dirs []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	if len(dirs) != 1 {
		return "", nil
	}

	only := dirs[0]
	if strings.EqualFold(only.Name(), game) {
		return filepath.Join(installDir, only.Name()), nil
	}

	// Two-level <opaque-id>/<game> structure.
	candidatePath := filepath.Join(installDir, only.Name())
	innerEntries, err := os.ReadDir(candidatePath)
	if err != nil {
		return "", nil //nolint:nilerr // not a wrapper dir we can inspect; leave as-is
	}
	var innerDirs []os.DirEntry
	for _, e := range innerEntries {
		if e.IsDir() {
			innerDirs = append(innerDirs, e)
		}
	}
	if len(innerDirs) == 1 && strings.EqualFold(innerDirs[0].Name(), game) {
		return filepath.Join(candidatePath, innerDirs[0].Name()), nil
	}
	return "", nil
}

// liftDirectory copies inner's contents up to installRoot, removing
// inner (and any now-empty opaque-id parent) afterward.
func liftDirectory(installRoot, inner string) error {
	tmp, err := os.MkdirTemp(installRoot, "temp-*")
	if err != nil {
		return fmt.Errorf("extractor: create staging dir: %w", err)
	}

	if err := copyTree(inner, tmp); err != nil {
		os.RemoveAll(tmp)
		return err
	}

	// Remove the wrapper directory tree (and its opaque-id parent, if
	// one exists and is now otherwise empty) before copying back, so
	// the copy-back never collides with the directory it came from.
	wrapperRoot := topLevelWrapper(installRoot, inner)
	if err := os.RemoveAll(inner); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("extractor: remove wrapper %s: %w", inner, err)
	}
	if wrapperRoot != inner {
		_ = os.Remove(wrapperRoot) // fails, and keeps the parent, unless it is now empty
	}

	if err := copyTree(tmp, installRoot); err != nil {
		return err
	}
	return os.RemoveAll(tmp)
}

// topLevelWrapper returns the direct child of installRoot that
// contains inner — either inner itself (single-level case) or its
// opaque-id parent (two-level case).
func topLevelWrapper(installRoot, inner string) string {
	rel, err := filepath.Rel(installRoot, inner)
	if err != nil {
		return inner
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	return filepath.Join(installRoot, parts[0])
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("extractor: read %s: %w", src, err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, info.Mode()); err != nil {
		return fmt.Errorf("extractor: write %s: %w", dst, err)
	}
	return nil
}

// PruneEmptyDirs removes empty directories under root, except any
// named _CommonRedist, which may legitimately be empty after a
// subprocess installer runs (spec §4.4 step 5).
func PruneEmptyDirs(root string) error {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Remove deepest-first so a directory that becomes empty only
	// after its child is pruned still gets pruned.
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		if filepath.Base(dir) == "_CommonRedist" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		if len(entries) == 0 {
			os.Remove(dir)
		}
	}
	return nil
}
