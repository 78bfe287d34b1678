// Command ascendara-notification-helper is the Notification Helper
// worker of spec §2/§6: a peripheral, interface-only process that
// renders a themed toast and exits. Spec §1 lists the toast window
// itself as an external presentation collaborator with no algorithm
// worth re-specifying; this command only needs to accept the contract
// and report whether it could be honored.
package main

import (
	"fmt"
	"os"

	"ascendara/internal/cliargs"
	"ascendara/internal/crashreporter"
	"ascendara/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log, closer, err := logger.New("notificationhelper", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ascendara-notification-helper: failed to open log file:", err)
		return 1
	}
	defer closer.Close()

	reporter := crashreporter.New(log)
	defer crashreporter.Flush()

	_, flags := cliargs.ParseFlags(os.Args[1:])
	theme, title, message := flags.Get("theme"), flags.Get("title"), flags.Get("message")
	if title == "" || message == "" {
		crashreporter.Register(reporter, crashreporter.ToolNotificationHelper, crashreporter.CodeInvalidData,
			"usage: --theme <t> --title <s> --message <s>")
		log.Error("missing required --title/--message")
		return 1
	}

	log.Info("toast", "theme", theme, "title", title, "message", message)
	return 0
}
