// Package config reads and mutates the per-user SettingsDocument, a
// plain JSON file at <user-config-root>/ascendara/ascendarasettings.json
// per spec §6. Unlike the teacher's database-backed ConfigManager, the
// document here is the same kind of atomically-written JSON file as a
// StatusDocument (spec invariant 1 forbids a database for this state),
// so Manager wraps statusdoc.Write/Read instead of a storage layer.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"ascendara/internal/statusdoc"
)

const settingsDirName = "ascendara"
const settingsFileName = "ascendarasettings.json"

// Defaults matching spec §3 SettingsDocument and §4.2/§4.3 worker
// counts.
const (
	DefaultThreadCount           = 4
	DefaultHostHelperThreadCount = 5
)

// Document is the on-disk shape of the SettingsDocument.
type Document struct {
	DownloadDirectory    string            `json:"downloadDirectory"`
	ThreadCount          int               `json:"threadCount"`
	HostHelperThreadCount int              `json:"hostHelperThreadCount"`
	RunningGames         map[string]string `json:"runningGames"`
}

// Manager loads, caches, and atomically persists the SettingsDocument.
// Multiple workers may hold a Manager concurrently; Path() is always
// the same well-known file, and every mutation goes through the same
// atomic-replace discipline as a StatusDocument.
type Manager struct {
	mu   sync.Mutex
	path string
	doc  Document
}

// Path returns the well-known per-user settings path.
func Path() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, settingsDirName, settingsFileName), nil
}

// Load reads the SettingsDocument, creating a default one in memory
// (not yet persisted) if none exists on disk.
func Load() (*Manager, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	m := &Manager{path: path, doc: defaultDocument()}
	if statusdoc.Exists(path) {
		if err := statusdoc.Read(path, &m.doc); err != nil {
			return nil, err
		}
		applyZeroDefaults(&m.doc)
	}
	return m, nil
}

func defaultDocument() Document {
	return Document{
		ThreadCount:           DefaultThreadCount,
		HostHelperThreadCount: DefaultHostHelperThreadCount,
		RunningGames:          map[string]string{},
	}
}

// applyZeroDefaults fills in defaults for fields an older or partial
// settings file left at the zero value, the way the teacher's
// ConfigManager getters fall back to a default when the stored string
// is empty.
func applyZeroDefaults(d *Document) {
	if d.ThreadCount <= 0 {
		d.ThreadCount = DefaultThreadCount
	}
	if d.HostHelperThreadCount <= 0 {
		d.HostHelperThreadCount = DefaultHostHelperThreadCount
	}
	if d.RunningGames == nil {
		d.RunningGames = map[string]string{}
	}
}

func (m *Manager) save() error {
	return statusdoc.Write(m.path, &m.doc)
}

// DownloadDirectory returns the configured download root.
func (m *Manager) DownloadDirectory() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.DownloadDirectory
}

// ThreadCount returns the configured direct-download worker count,
// defaulting to 4 per spec §4.2.
func (m *Manager) ThreadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.ThreadCount
}

// HostHelperThreadCount returns the configured host-helper worker
// count, defaulting to 5 per spec §3. Not used for concurrency inside
// the resolver itself — host-helper downloads are sequential per
// spec §4.3 — but forwarded for display/back-compat with front-end
// settings editors.
func (m *Manager) HostHelperThreadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.HostHelperThreadCount
}

// SetRunning registers game as running with the given executable
// path, or clears the entry when executable is empty. The
// runningGames map is authoritative while a handler holds it (spec
// §3 invariant 3).
func (m *Manager) SetRunning(game, executable string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if executable == "" {
		delete(m.doc.RunningGames, game)
	} else {
		m.doc.RunningGames[game] = executable
	}
	return m.save()
}

// ClearRunning removes game from runningGames, e.g. on process exit.
func (m *Manager) ClearRunning(game string) error {
	return m.SetRunning(game, "")
}

// IsRunning reports whether game currently appears in runningGames.
func (m *Manager) IsRunning(game string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.doc.RunningGames[game]
	return ok
}
