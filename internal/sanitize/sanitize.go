// Package sanitize implements the one folder-name sanitization rule
// every worker applies before touching the filesystem, per spec §6.
package sanitize

import "regexp"

var allowed = regexp.MustCompile(`[^A-Za-z0-9 ._()-]`)

// FolderName reduces name to the character class [A-Za-z0-9 ._()-],
// stripping everything else. Applied consistently before any
// filesystem use of a game name.
func FolderName(name string) string {
	return allowed.ReplaceAllString(name, "")
}
