// Package richpresence publishes an optional "now playing" record to a
// local presence IPC endpoint for the duration of a game session, per
// spec §4.5 "Rich-presence". Connection failures are logged and
// ignored by the caller — this is always best-effort.
package richpresence

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Activity is the payload published for the duration of a session.
type Activity struct {
	Details string `json:"details"`
	State   string `json:"state"`
	Start   int64  `json:"start"`
}

// Client holds the open connection to the local presence IPC, if one
// was established.
type Client struct {
	conn net.Conn
}

// Connect dials the platform's local presence endpoint. Callers treat
// a non-nil error as "rich-presence unavailable" and continue without
// it, per spec §4.5.
func Connect() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("richpresence: connect: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Publish sends details/state for game, timestamped with the session
// start time.
func (c *Client) Publish(game string, start time.Time) error {
	if c == nil || c.conn == nil {
		return nil
	}
	activity := Activity{
		Details: "Playing a Game",
		State:   game,
		Start:   start.Unix(),
	}
	enc := json.NewEncoder(c.conn)
	if err := enc.Encode(activity); err != nil {
		return fmt.Errorf("richpresence: publish: %w", err)
	}
	return nil
}

// Clear tells the presence service to drop the activity and closes
// the connection. Safe to call on a nil Client.
func (c *Client) Clear() error {
	if c == nil || c.conn == nil {
		return nil
	}
	enc := json.NewEncoder(c.conn)
	if err := enc.Encode(map[string]any{"clear": true}); err != nil {
		c.conn.Close()
		return fmt.Errorf("richpresence: clear: %w", err)
	}
	return c.conn.Close()
}
