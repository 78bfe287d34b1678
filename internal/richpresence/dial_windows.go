//go:build windows

package richpresence

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
)

const pipeName = `\\.\pipe\ascendara-presence-0`

func dial() (net.Conn, error) {
	conn, err := winio.DialPipe(pipeName, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", pipeName, err)
	}
	return conn, nil
}
