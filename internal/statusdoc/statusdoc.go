// Package statusdoc defines the per-game status document, the
// collection index, and the atomic write discipline every worker in
// this repository uses to mutate them. The file on disk is the
// coordination channel between the downloader, the host helper, the
// game handler, and the front-end poller: every mutation goes through
// Write so a concurrent reader never observes a torn file.
package statusdoc

import "path/filepath"

// DownloadingData is present on a StatusDocument only while the game
// is being acquired. It is removed entirely on successful install.
type DownloadingData struct {
	Downloading bool   `json:"downloading,omitempty"`
	Extracting  bool   `json:"extracting,omitempty"`
	Updating    bool   `json:"updating,omitempty"`
	Waiting     bool   `json:"waiting,omitempty"`

	ProgressCompleted      string `json:"progressCompleted,omitempty"`
	ProgressDownloadSpeeds string `json:"progressDownloadSpeeds,omitempty"`
	TimeUntilComplete      string `json:"timeUntilComplete,omitempty"`

	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewAcquiringStub returns the DownloadingData stub a worker writes
// the moment it starts targeting a game directory: all phase booleans
// false except Downloading, per spec §3 lifecycle.
func NewAcquiringStub() *DownloadingData {
	return &DownloadingData{
		Downloading:            true,
		ProgressCompleted:      "0.00",
		ProgressDownloadSpeeds: "0.00 KB/s",
		TimeUntilComplete:      "calculating…",
	}
}

// StatusDocument is the per-game JSON file living at
// <install_dir>/<game>/<game>.ascendara.json.
type StatusDocument struct {
	Game       string `json:"game"`
	Online     bool   `json:"online"`
	DLC        bool   `json:"dlc"`
	IsVR       bool   `json:"isVr"`
	Version    string `json:"version"`
	Size       string `json:"size"`
	Executable string `json:"executable"`
	IsRunning  bool   `json:"isRunning"`

	LaunchCount int `json:"launchCount,omitempty"`
	PlayTime    int `json:"playTime,omitempty"`

	RunError string `json:"runError,omitempty"`

	DownloadingData *DownloadingData `json:"downloadingData,omitempty"`
}

// Path returns the well-known StatusDocument location for a game
// inside downloadDir, per spec §6 "File paths".
func Path(downloadDir, game string) string {
	return filepath.Join(downloadDir, game, game+".ascendara.json")
}

// BlankOnError replaces most fields per spec §3 lifecycle "On fatal
// acquisition failure" and sets DownloadingData to the error record.
func (d *StatusDocument) BlankOnError(message string) {
	d.Online = false
	d.DLC = false
	d.Version = ""
	d.Executable = ""
	d.IsRunning = false
	d.DownloadingData = &DownloadingData{Error: true, Message: message}
}

// CustomGameEntry is one element of CollectionIndex.Games: a
// user-added game whose installer this system did not produce.
type CustomGameEntry struct {
	Game        string `json:"game"`
	Executable  string `json:"executable"`
	PlayTime    int    `json:"playTime,omitempty"`
	LaunchCount int    `json:"launchCount,omitempty"`
	IsRunning   bool   `json:"isRunning"`
}

// CollectionIndex is the sibling games.json document in the download
// root enumerating custom games.
type CollectionIndex struct {
	Games []CustomGameEntry `json:"games"`
}

// IndexPath returns the well-known CollectionIndex location.
func IndexPath(downloadDir string) string {
	return filepath.Join(downloadDir, "games.json")
}

// Find returns a pointer to the entry for game, or nil.
func (c *CollectionIndex) Find(game string) *CustomGameEntry {
	for i := range c.Games {
		if c.Games[i].Game == game {
			return &c.Games[i]
		}
	}
	return nil
}
