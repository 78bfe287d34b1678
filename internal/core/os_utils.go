package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
)

// SignalContext returns a context derived from parent that is
// cancelled the first time the process receives os.Interrupt or
// SIGTERM, and a stop func that releases the signal handlers early.
// Adapted from the teacher's callback-based WaitForSignals into this
// codebase's context-cancellation idiom (the same one
// gamehandler.Run and downloader.Download take a ctx by), so a
// worker's shutdown path is a single ctx.Done() the same way every
// other cancellable operation here is.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// OpenFolder opens the OS file manager with path selected, for the
// front-end's "show in folder" action on a completed acquisition.
func OpenFolder(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", "/select,", absPath)
	case "darwin":
		cmd = exec.Command("open", "-R", absPath)
	case "linux":
		// Linux file managers vary widely in "select and reveal" support;
		// opening the containing directory is the portable fallback.
		cmd = exec.Command("xdg-open", filepath.Dir(absPath))
	default:
		return fmt.Errorf("core: unsupported platform %s", runtime.GOOS)
	}
	return cmd.Start()
}
