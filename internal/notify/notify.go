// Package notify spawns the peripheral Notification Helper worker
// best-effort and without waiting on it, locating the binary next to
// the calling worker the way crashreporter does. Unlike crashreporter,
// it sets no detach attributes, so the helper starts in the worker's
// own process group.
package notify

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

func exeName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// Spawn launches the notification helper with the given theme, title,
// and message. Failure to locate or start it is logged and ignored —
// a toast is never worth failing an acquisition over.
func Spawn(theme, title, message string, log *slog.Logger) {
	path := exeName("ascendara-notification-helper")
	if exeDir, err := os.Executable(); err == nil {
		path = filepath.Join(filepath.Dir(exeDir), exeName("ascendara-notification-helper"))
	}
	if _, err := os.Stat(path); err != nil {
		if log != nil {
			log.Warn("notification helper not found", "path", path, "error", err)
		}
		return
	}
	cmd := exec.Command(path, "--theme", theme, "--title", title, "--message", message)
	if err := cmd.Start(); err != nil {
		if log != nil {
			log.Warn("failed to launch notification helper", "error", err)
		}
		return
	}
	go cmd.Wait()
}
