// Package diskspace preflights an acquisition against available disk
// space before any byte is written, adapted from the teacher's
// internal/filesystem/allocator.go checkDiskSpace, generalized from a
// single-file pre-allocation helper into a standalone preflight used
// by both the direct downloader and the host helper (host-helper
// shares don't know their exact byte size until the tree is resolved,
// so this is called after ProbeTotalSize there, and after the HEAD
// probe in the direct downloader).
package diskspace

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
)

// Buffer is held back below whatever free space disk.Usage reports,
// the same 100 MiB safety margin the teacher's allocator reserves for
// system stability.
const Buffer = 100 * 1024 * 1024

// ErrInsufficientSpace is returned when free space minus Buffer is
// less than the requested size.
type ErrInsufficientSpace struct {
	Required  uint64
	Available uint64
}

func (e *ErrInsufficientSpace) Error() string {
	return fmt.Sprintf("diskspace: need %s, only %s free",
		humanize.Bytes(e.Required), humanize.Bytes(e.Available))
}

// CheckAvailable verifies that destDir's volume has at least
// requiredBytes plus Buffer free.
func CheckAvailable(destDir string, requiredBytes int64) error {
	usage, err := disk.Usage(filepath.Clean(destDir))
	if err != nil {
		return fmt.Errorf("diskspace: check usage for %s: %w", destDir, err)
	}
	needed := uint64(requiredBytes) + Buffer
	if usage.Free < needed {
		return &ErrInsufficientSpace{Required: needed, Available: usage.Free}
	}
	return nil
}

// Usage reports free/total space for destDir in human-readable form,
// for log lines and front-end disk-usage widgets.
type Usage struct {
	Free      string `json:"free"`
	Total     string `json:"total"`
	UsedPercent float64 `json:"usedPercent"`
}

func Report(destDir string) (*Usage, error) {
	usage, err := disk.Usage(filepath.Clean(destDir))
	if err != nil {
		return nil, fmt.Errorf("diskspace: report usage for %s: %w", destDir, err)
	}
	return &Usage{
		Free:        humanize.Bytes(usage.Free),
		Total:       humanize.Bytes(usage.Total),
		UsedPercent: usage.UsedPercent,
	}, nil
}
