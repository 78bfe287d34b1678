package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderName(t *testing.T) {
	cases := map[string]string{
		"Half-Life 2":      "Half-Life 2",
		"Baldur's Gate 3!": "Baldurs Gate 3",
		"Oddworld: New 'n' Tasty": "Oddworld New n Tasty",
		"Déjà Vu":          "Dj Vu",
	}
	for in, want := range cases {
		assert.Equal(t, want, FolderName(in))
	}
}
